package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/hcl_adapter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "BUILDCHECK"
	configFileEnv  = "BUILDCHECK_CONFIG_FILE"
	configFileName = ".buildcheck"
)

// Persistent setting keys, shared by flags, environment and config file.
const (
	keyLogLevel      = "log-level"
	keyLogFormat     = "log-format"
	keyFormat        = "format"
	keyStrict        = "strict"
	keyCheckWritable = "check-writable"
	keyWatchDelay    = "watch-delay"
)

// NewRootCommand builds the buildcheck command tree. Command output goes to
// outW, logs and diagnostics about the invocation to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "buildcheck",
		Short: "Validate and resolve Android embedding build configuration",
		Long: `buildcheck loads the HCL build configuration of an Android embedding
(a root project plus its application modules), resolves it into a
deterministic build graph and checks the rules a shippable build must meet.

Commands:
  buildcheck validate [PATH...]   Report rule violations
  buildcheck resolve  [PATH...]   Print the resolved build graph
  buildcheck graph    [PATH...]   Print the evaluation ordering (DOT)
  buildcheck watch    [PATH...]   Re-validate whenever a .hcl file changes
  buildcheck rules                List every rule

PATH defaults to the current directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v, cfgFile, errW)
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .buildcheck.yaml, can also use BUILDCHECK_CONFIG_FILE env var)")
	flags.String(keyLogLevel, "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String(keyLogFormat, "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringP(keyFormat, "f", "text", "Output format. Options: 'text', 'json', 'yaml', 'dot' (graph only).")
	flags.Bool(keyStrict, false, "Treat warnings as errors.")
	flags.Bool(keyCheckWritable, false, "Probe that the redirected output directory can be created.")
	bindFlags(v, flags)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newRunCommand(v, outW, errW, app.CommandValidate, "Report rule violations", "Exits with status 1 when error findings remain."),
		newRunCommand(v, outW, errW, app.CommandResolve, "Print the resolved build graph", "Validation errors stop resolution and are printed instead."),
		newRunCommand(v, outW, errW, app.CommandGraph, "Print the configuration-evaluation ordering", "Uses DOT unless --format is json or yaml."),
		newWatchCommand(v, outW, errW),
		newRulesCommand(v, outW),
		newVersionCommand(outW),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		// BindPFlag only fails for a nil flag.
		_ = v.BindPFlag(f.Name, f)
	})
}

// readConfigFile loads the optional YAML config file.
//
// Priority (highest to lowest): --config flag, BUILDCHECK_CONFIG_FILE,
// .buildcheck.yaml in the current directory. Only an explicitly named file
// is required to exist.
func readConfigFile(v *viper.Viper, cfgFile string, errW io.Writer) error {
	explicit := true
	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case os.Getenv(configFileEnv) != "":
		v.SetConfigFile(os.Getenv(configFileEnv))
	default:
		explicit = false
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("failed to read config file: %v", err), Err: err}
	}
	fmt.Fprintln(errW, "Using config file:", v.ConfigFileUsed())
	return nil
}

// appConfig builds the validated application configuration.
func appConfig(v *viper.Viper, args []string) (*app.Config, error) {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	cfg, err := app.NewConfig(app.Config{
		Paths:         paths,
		LogFormat:     v.GetString(keyLogFormat),
		LogLevel:      v.GetString(keyLogLevel),
		Format:        v.GetString(keyFormat),
		Strict:        v.GetBool(keyStrict),
		CheckWritable: v.GetBool(keyCheckWritable),
		WatchDelay:    v.GetDuration(keyWatchDelay),
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

func newApp(v *viper.Viper, args []string, outW, errW io.Writer) (*app.App, error) {
	cfg, err := appConfig(v, args)
	if err != nil {
		return nil, err
	}
	return app.NewApp(outW, errW, cfg, hcl_adapter.NewLoader()), nil
}
