package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/opgrid/internal/app"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "OPGRID"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options carries the state shared by every command of one invocation.
type options struct {
	v       *viper.Viper
	cfgFile string
	outW    io.Writer
	logW    io.Writer
	modules []registry.Module
}

// Run executes the command line in args. Standard output receives command
// results; logW receives logs and error messages.
func Run(ctx context.Context, args []string, outW, logW io.Writer, modules ...registry.Module) error {
	root := NewRootCommand(outW, logW, modules...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// NewRootCommand builds the opgrid command tree.
func NewRootCommand(outW, logW io.Writer, modules ...registry.Module) *cobra.Command {
	o := &options{v: viper.New(), outW: outW, logW: logW, modules: modules}

	root := &cobra.Command{
		Use:   "opgrid",
		Short: "Inspect and validate pipeline operator declarations",
		Long: `opgrid loads the pipeline operators compiled into this binary together with
the operators declared in HCL manifests, validates every declaration against
its Go class, and publishes the resulting catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig()
		},
	}
	root.SetOut(outW)
	root.SetErr(logW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&o.cfgFile, "config", "c", "", "config file (yaml)")
	flags.StringSliceP("manifests", "m", nil, "manifest files or directories")
	flags.String("log-level", "warn", "logging level: debug, info, warn or error")
	flags.String("log-format", "text", "log output format: text or json")
	_ = o.v.BindPFlags(flags)

	root.AddCommand(
		newListCommand(o),
		newDescribeCommand(o),
		newCheckCommand(o),
		newVerifyCommand(o),
		newPipelineCommand(o),
	)
	return root
}

func (o *options) initConfig() error {
	o.v.SetEnvPrefix(EnvPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		if err := o.v.ReadInConfig(); err != nil {
			return usageError("failed to read config file '%s': %v", o.cfgFile, err)
		}
	}
	return nil
}

// config validates the merged flag, environment and file settings.
func (o *options) config() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ManifestPaths: o.v.GetStringSlice("manifests"),
		LogLevel:      o.v.GetString("log-level"),
		LogFormat:     o.v.GetString("log-format"),
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

// newApp builds the application and loads its manifests. The app panics on
// module registration errors, which are reported as a failed startup.
func (o *options) newApp(ctx context.Context) (a *app.App, err error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			a, err = nil, &ExitError{Code: 1, Message: fmt.Sprintf("A critical startup error occurred: %v", r)}
		}
	}()
	a = app.NewApp(ctx, o.logW, cfg, o.modules...)
	if err := a.LoadManifests(); err != nil {
		return nil, &ExitError{Code: 1, Message: err.Error()}
	}
	return a, nil
}

// usageArgs wraps a cobra positional argument check so that violations exit
// with the usage code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}
