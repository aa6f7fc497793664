package login

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/aschmelyun/robomovie/cmd/common"
	"github.com/aschmelyun/robomovie/internal/credentials"
	"github.com/aschmelyun/robomovie/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Logout bool `optional:"true" help:"Remove the stored key instead."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "login",
		Short:       "Store the hosted data store key in the system keyring",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout, readSecret); err != nil {
				fmt.Fprintf(os.Stderr, "login: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func readSecret() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return string(b), nil
}

// Run prompts for the key with read and stores it.
func Run(params *Params, stdout io.Writer, read func() (string, error)) error {
	if params.Logout {
		if err := credentials.Delete(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, tui.BulletStyle.Render("└")+tui.TextStyle.Render("Storage key removed."))
		return nil
	}

	fmt.Fprint(stdout, tui.BulletStyle.Render("├")+tui.TextStyle.Render("Enter your storage key: "))
	key, err := read()
	fmt.Fprintln(stdout)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		fmt.Fprintln(stdout, tui.BulletStyle.Render("└")+tui.TextStyle.Render("A storage key is required to reach hosted scene media."))
		return errors.New("no key entered")
	}
	if err := credentials.Save(key); err != nil {
		return err
	}
	fmt.Fprintln(stdout, tui.BulletStyle.Render("└")+tui.TextStyle.Render("Storage key saved."))
	return nil
}
