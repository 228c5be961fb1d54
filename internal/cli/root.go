package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/burstbuild/internal/app"
	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/index"
	"github.com/specialistvlad/burstbuild/internal/registry"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// EnvPrefix prefixes every environment variable that mirrors a flag.
const EnvPrefix = "BURSTBUILD"

// rootEnvVars name the source root, in order of precedence.
var rootEnvVars = []string{"BURSTBUILD_ROOT", "ANDROID_BUILD_TOP"}

// Execute runs the command line in args. Results go to outW, logs to errW.
// The returned error is an *ExitError unless help was requested.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	cmd := NewRootCommand(outW, errW)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return usageError(err.Error())
	}
	return nil
}

// NewRootCommand builds the burstbuild command.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "burstbuild [flags] [targets...]",
		Short: "Dependency-aware module builder",
		Long: `burstbuild scans a source tree for Blueprint.hcl declarations, builds the
requested modules in dependency order and maintains a queryable module index.

Targets are module names or directories. With no targets, or with all_modules,
every declared module is built.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args, outW, errW)
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	flags := cmd.Flags()
	flags.Bool("list-modules", false, "Rebuild the module index and print its path.")
	flags.Bool("query-all", false, "Print every indexed module name.")
	flags.String("query-path", "", "Print the declaring directory of a module.")
	flags.String("query-out", "", "Print the installed artifact path of a module.")
	flags.String("query-dir", "", "Print the modules declared in a directory.")
	cmd.MarkFlagsMutuallyExclusive("list-modules", "query-all", "query-path", "query-out", "query-dir")

	flags.IntP("jobs", "j", 0, "Number of modules built in parallel. 0 uses one per CPU.")
	flags.String("root", "", "Source root. Defaults to $BURSTBUILD_ROOT, $ANDROID_BUILD_TOP or the working directory.")
	flags.String("out-dir", "", "Output directory, relative to the root unless absolute.")
	flags.String("file-name", registry.DefaultFileName, "Name of module declaration files.")
	flags.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	flags.String("progress-url", "", "socket.io server that receives progress events.")
	flags.String("progress-namespace", "/", "socket.io namespace for progress events.")
	flags.Duration("min-latency", 0, "Minimum simulated duration of a build phase.")
	flags.Duration("max-latency", 0, "Maximum simulated duration of a build phase.")
	flags.String("config", "", "Path to a config file (YAML, TOML or JSON) providing flag defaults.")
	flags.Bool("no-color", false, "Disable colored output.")

	bindViper(v, flags)
	return cmd
}

// bindViper makes every flag resolvable from BURSTBUILD_* variables and the
// config file, with explicitly set flags taking precedence.
func bindViper(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
	_ = v.BindEnv(append([]string{"root"}, rootEnvVars...)...)
}

func loadConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return usageError(fmt.Sprintf("failed to read config file %s: %v", path, err))
	}
	return nil
}

func appConfig(v *viper.Viper) (*app.Config, error) {
	root := v.GetString("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	return app.NewConfig(app.Config{
		Root:              root,
		OutDir:            v.GetString("out-dir"),
		DeclFileName:      v.GetString("file-name"),
		Jobs:              v.GetInt("jobs"),
		LogFormat:         v.GetString("log-format"),
		LogLevel:          v.GetString("log-level"),
		HealthcheckPort:   v.GetInt("healthcheck-port"),
		ProgressURL:       v.GetString("progress-url"),
		ProgressNamespace: v.GetString("progress-namespace"),
		MinLatency:        v.GetDuration("min-latency"),
		MaxLatency:        v.GetDuration("max-latency"),
	})
}

func run(ctx context.Context, v *viper.Viper, args []string, outW, errW io.Writer) error {
	if err := loadConfigFile(v); err != nil {
		return err
	}
	if err := checkQueryValues(v); err != nil {
		return err
	}
	cfg, err := appConfig(v)
	if err != nil {
		return usageError(err.Error())
	}

	noColor := v.GetBool("no-color") || !isTerminal(outW)
	printer := NewPrinter(outW, noColor)

	a := app.NewApp(errW, cfg, app.WithProgressSink(printer))
	defer a.Close()

	switch {
	case v.GetBool("list-modules"):
		path, err := a.RefreshIndex(ctx)
		if err != nil {
			return structuralError(err)
		}
		fmt.Fprintf(outW, "Generated module info at %s\n", path)
		return nil

	case v.GetBool("query-all"):
		names, err := a.QueryAll()
		if err != nil {
			return queryError(err)
		}
		printLines(outW, names)
		return nil

	case v.IsSet("query-path"):
		dir, err := a.QueryPath(v.GetString("query-path"))
		if err != nil {
			return queryError(err)
		}
		fmt.Fprintln(outW, dir)
		return nil

	case v.IsSet("query-out"):
		out, err := a.QueryOut(v.GetString("query-out"))
		if err != nil {
			return queryError(err)
		}
		fmt.Fprintln(outW, out)
		return nil

	case v.IsSet("query-dir"):
		names, err := a.QueryDir(v.GetString("query-dir"))
		if err != nil {
			return queryError(err)
		}
		printLines(outW, names)
		return nil
	}

	report, err := a.Build(ctx, args)
	if report != nil {
		printer.Summary(report)
	}
	if err == nil {
		return nil
	}
	if report == nil {
		return structuralError(err)
	}
	if report.Result != nil && report.Cancelled {
		return failure(scheduler.ErrCancelled.Error())
	}
	return failure("build failed")
}

// queryKeys are the query flags that take a value.
var queryKeys = []string{"query-path", "query-out", "query-dir"}

// checkQueryValues rejects a query flag that was given an empty value.
func checkQueryValues(v *viper.Viper) error {
	for _, key := range queryKeys {
		if v.IsSet(key) && strings.TrimSpace(v.GetString(key)) == "" {
			return usageError(fmt.Sprintf("--%s requires a non-empty value", key))
		}
	}
	return nil
}

// structuralError turns a load or graph error into a user-facing message.
func structuralError(err error) error {
	var (
		perr *config.ParseError
		dup  *registry.DuplicateModuleError
		cyc  *dag.CyclicDependencyError
		nf   *dag.ModuleNotFoundError
	)
	switch {
	case errors.As(err, &perr):
		return failure(perr.Error())
	case errors.As(err, &dup):
		return failure(dup.Error())
	case errors.As(err, &cyc):
		return failure(cyc.Error())
	case errors.As(err, &nf):
		return failure(nf.Error())
	default:
		return failure(err.Error())
	}
}

// queryError explains a failed index query.
func queryError(err error) error {
	var missing *index.IndexMissingError
	if errors.As(err, &missing) {
		return failure(fmt.Sprintf("Module info not found at %s. Run a build or --list-modules first.", missing.Path))
	}
	return failure(err.Error())
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
