package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/aschmelyun/robomovie/cmd/common"
	"github.com/aschmelyun/robomovie/internal/media"
	"github.com/aschmelyun/robomovie/internal/project"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Project string `pos:"true" help:"Project file whose asset shelf to edit."`
	Add     string `long:"add" optional:"true" help:"Media URL or path to put on the shelf." default:""`
	Kind    string `short:"k" long:"kind" optional:"true" help:"Kind of the added asset: video, audio or image." default:"video"`
	Name    string `long:"name" optional:"true" help:"Display name of the added asset. Defaults to the file name." default:""`
	Remove  string `long:"rm" optional:"true" help:"Id of an asset to take off the shelf." default:""`
	JSON    bool   `long:"json" optional:"true" help:"Output as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "assets",
		Short:       "List, add or remove the media on a project's asset shelf",
		Long:        "List, add or remove the media on a project's asset shelf. New clips on a track use the newest asset of the track's kind.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "assets: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func parseKind(s string) (media.AssetKind, error) {
	k := media.AssetKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case media.AssetVideo, media.AssetAudio, media.AssetImage:
		return k, nil
	}
	return "", fmt.Errorf("unknown asset kind %q (video, audio or image)", s)
}

func Run(params *Params, stdout io.Writer) error {
	p, err := project.LoadOrNew(params.Project)
	if err != nil {
		return err
	}
	lib := media.NewLibrary()
	for _, a := range p.Assets {
		lib.AddAsset(a)
	}

	changed := false
	if id := strings.TrimSpace(params.Remove); id != "" {
		if !lo.ContainsBy(lib.Assets(), func(a media.Asset) bool { return a.ID == id }) {
			return fmt.Errorf("no asset with id %s", id)
		}
		lib.RemoveAsset(id)
		changed = true
	}
	if url := strings.TrimSpace(params.Add); url != "" {
		kind, err := parseKind(params.Kind)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(params.Name)
		if name == "" {
			name = path.Base(url)
		}
		lib.AddAsset(media.Asset{ID: uuid.NewString(), Kind: kind, URL: url, Name: name})
		changed = true
	}
	if changed {
		p.Assets = lib.Assets()
		if err := project.Save(params.Project, p); err != nil {
			return err
		}
	}

	if params.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lib.Assets())
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Type", "Name", "URL"})
	for _, a := range lib.Assets() {
		t.AppendRow(table.Row{a.ID, a.Kind, a.Name, a.URL})
	}
	if len(lib.Assets()) == 0 {
		t.AppendFooter(table.Row{"", "", "no assets"})
	}
	t.Render()
	return nil
}
