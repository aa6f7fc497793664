package tracks

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/aschmelyun/robomovie/cmd/common"
	"github.com/aschmelyun/robomovie/internal/composition"
	"github.com/aschmelyun/robomovie/internal/config"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/aschmelyun/robomovie/internal/timeline"
	"github.com/aschmelyun/robomovie/internal/transport"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

type Params struct {
	Project string `pos:"true" help:"Project file to read."`
	FPS     int    `long:"fps" optional:"true" help:"Frame rate for timecodes. Zero uses the project's, then ROBOMOVIE_FPS." default:"0"`
	Clips   bool   `short:"c" optional:"true" help:"List every clip instead of one row per track."`
	JSON    bool   `long:"json" optional:"true" help:"Output as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tracks",
		Short:       "Print the tracks and clips of a project",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "tracks: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

const sourceWidth = 40

// Tracks returns the project's timeline: the saved one when present,
// otherwise the tracks its composition seeds.
func Tracks(p *project.Project, fps int) ([]timeline.Track, error) {
	if p.Timeline != nil {
		st, err := p.Timeline.State()
		if err != nil {
			return nil, err
		}
		return st.Tracks, nil
	}
	if p.Composition == nil {
		return nil, nil
	}
	store := timeline.NewStore()
	composition.Seed(store, *p.Composition, fps)
	return store.Tracks(), nil
}

func Run(params *Params, stdout io.Writer) error {
	p, err := project.Load(params.Project)
	if err != nil {
		return err
	}

	fps := params.FPS
	if fps <= 0 && p.Composition != nil {
		fps = p.Composition.FPS
	}
	if fps <= 0 {
		fps = config.Load().FPS
	}

	tracks, err := Tracks(p, fps)
	if err != nil {
		return err
	}
	if params.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(project.FromTracks(tracks))
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	if params.Clips {
		renderClips(t, tracks, fps)
	} else {
		renderTracks(t, tracks, fps)
	}
	t.Render()
	return nil
}

func flags(tr timeline.Track) string {
	var out []string
	if tr.Locked {
		out = append(out, text.FgRed.Sprint("locked"))
	}
	if !tr.Visible {
		out = append(out, text.FgHiBlack.Sprint("hidden"))
	}
	return strings.Join(out, " ")
}

func timecode(seconds float64, fps int) string {
	return transport.FormatTimecode(int(math.Round(seconds*float64(fps))), fps)
}

func renderTracks(t table.Writer, tracks []timeline.Track, fps int) {
	t.AppendHeader(table.Row{"#", "Track", "Type", "Clips", "End", "Volume", "Flags"})
	for i, tr := range tracks {
		volume := ""
		if tr.Kind == timeline.KindAudio {
			volume = fmt.Sprintf("%.0f%%", tr.Volume*100)
		}
		t.AppendRow(table.Row{i + 1, tr.Name, tr.Kind, len(tr.Clips), timecode(tr.End(), fps), volume, flags(tr)})
	}
	if len(tracks) == 0 {
		t.AppendFooter(table.Row{"", "no tracks"})
	}
}

func renderClips(t table.Writer, tracks []timeline.Track, fps int) {
	t.AppendHeader(table.Row{"Track", "Clip", "Type", "Start", "End", "Source"})
	for _, tr := range tracks {
		for _, c := range tr.ByStart() {
			src := runewidth.Truncate(strings.ReplaceAll(c.Source(), "\n", " "), sourceWidth, "…")
			t.AppendRow(table.Row{
				text.FgGreen.Sprint(tr.Name),
				c.Name,
				c.Kind(),
				timecode(c.Start, fps),
				timecode(c.End, fps),
				src,
			})
		}
	}
}
