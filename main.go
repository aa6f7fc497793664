package main

import (
	"runtime/debug"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/aschmelyun/robomovie/cmd/assets"
	"github.com/aschmelyun/robomovie/cmd/edit"
	"github.com/aschmelyun/robomovie/cmd/login"
	"github.com/aschmelyun/robomovie/cmd/tracks"
	"github.com/aschmelyun/robomovie/internal/config"
	"github.com/aschmelyun/robomovie/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "robomovie",
		Short:   "Terminal timeline editor for generated scene videos",
		Long:    usage(config.Load().MPVPath),
		Version: version(),
		SubCmds: []*cobra.Command{
			edit.Cmd(),
			tracks.Cmd(),
			assets.Cmd(),
			login.Cmd(),
		},
	}.Run()
}

func usage(player string) string {
	status := "✓ found"
	if !tui.CheckDependency(player) {
		status = "✗ not found, preview disabled"
	}
	lines := []string{
		tui.BulletStyle.Render("┌") + tui.TitleStyle.Render("robomovie"),
		tui.BulletStyle.Render("├") + tui.TextStyle.Render("Edit a project: robomovie edit movie.json"),
		tui.BulletStyle.Render("│"),
		tui.BulletStyle.Render("├") + tui.TextStyle.Render("Requirements:"),
		tui.BulletStyle.Render("└────") + tui.TextStyle.Render(player) + tui.DimTextStyle.Render("  "+status),
	}
	return strings.Join(lines, "\n")
}

// version is the module version of a released build, or the VCS revision
// of a local one.
func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return versionOf(bi)
}

func versionOf(bi *debug.BuildInfo) string {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return "dev-" + s.Value[:7]
		}
	}
	return "dev"
}
