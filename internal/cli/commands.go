package cli

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/report"
	"github.com/specialistvlad/buildcheck/internal/validate"
	"github.com/specialistvlad/buildcheck/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

func newRunCommand(v *viper.Viper, outW, errW io.Writer, command app.Command, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   string(command) + " [PATH...]",
		Short: short,
		Long:  short + ". " + long,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(v, args, outW, errW)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), command)
		},
	}
}

func newWatchCommand(v *viper.Viper, outW, errW io.Writer) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:     "watch [PATH...]",
		Aliases: []string{"w"},
		Short:   "Re-run a command whenever a .hcl file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch app.Command(command) {
			case app.CommandValidate, app.CommandResolve, app.CommandGraph:
			default:
				return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid --run %q: must be 'validate', 'resolve' or 'graph'", command)}
			}
			a, err := newApp(v, args, outW, errW)
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context(), app.Command(command))
		},
	}
	cmd.Flags().StringVar(&command, "run", string(app.CommandValidate), "Command to re-run: 'validate', 'resolve' or 'graph'.")
	cmd.Flags().Duration(keyWatchDelay, watch.DefaultDelay, "Quiet period after the last change before re-running.")
	_ = v.BindPFlag(keyWatchDelay, cmd.Flags().Lookup(keyWatchDelay))
	return cmd
}

func newRulesCommand(v *viper.Viper, outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List every rule with its severity and reason",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(v.GetString(keyFormat))
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
			}
			return report.WriteRules(outW, validate.Rules(), format)
		},
	}
}

func newVersionCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(outW, "buildcheck %s\n", versionString())
		},
	}
}

func versionString() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
