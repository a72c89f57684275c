package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gnana997/blocksmith/pkg/component"
	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/fetch"
	"github.com/gnana997/blocksmith/pkg/integrate"
	"github.com/gnana997/blocksmith/pkg/parser"
	"github.com/gnana997/blocksmith/pkg/source"
	"github.com/gnana997/blocksmith/pkg/util"
)

const (
	envPrefix = "BLOCKSMITH"

	dirFlagName      = "dir"
	logLevelFlagName = "log-level"
	logFileFlagName  = "log-file"
	verboseFlagName  = "verbose"

	dirKey      = "dir"
	logLevelKey = "log.level"
	logFileKey  = "log.file"
	verboseKey  = "log.verbose"
)

const rootLongDescription = `blocksmith integrates UI effect components into a Sanity page builder.

It reads a component's props, classifies each into a CMS field with sensible
defaults, and writes a schema and a block wrapper next to your existing code.
Existing files are never overwritten. The remaining registration steps are
printed as a checklist.`

// app carries per-invocation state shared by all commands.
type app struct {
	v       *viper.Viper
	getenv  func(string) string
	logger  *slog.Logger
	closers []io.Closer
}

func newApp(getenv func(string) string) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(dirKey, ".")
	v.SetDefault(logLevelKey, string(util.LevelWarn))

	return &app{v: v, getenv: getenv, logger: slog.Default()}
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	a := newApp(getenv)
	defer a.close()

	root := newRootCmd(a)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if cmd, err := root.ExecuteC(); err != nil {
		printError(stderr, cmd, err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blocksmith",
		Short:         "Generate CMS blocks from UI components",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configureLogger(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(dirFlagName, ".", "project root")
	flags.String(logLevelFlagName, string(util.LevelWarn), "log level: debug, info, warn, error")
	flags.String(logFileFlagName, "", "write logs to this file (rotated) instead of stderr")
	flags.BoolP(verboseFlagName, "v", false, "debug logging")
	a.bindFlag(flags.Lookup(dirFlagName), dirKey)
	a.bindFlag(flags.Lookup(logLevelFlagName), logLevelKey)
	a.bindFlag(flags.Lookup(logFileFlagName), logFileKey)
	a.bindFlag(flags.Lookup(verboseFlagName), verboseKey)

	cmd.AddCommand(
		newInitCmd(a),
		newIntegrateCmd(a),
		newScaffoldCmd(a),
		newFetchCmd(a),
		newAnalyzeCmd(a),
		newListCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// bindFlag wires a flag to a viper key so BLOCKSMITH_* env values feed it.
func (a *app) bindFlag(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(a.v.BindPFlag(key, flag))
}

func (a *app) configureLogger(stderr io.Writer) error {
	cfg := util.DefaultLoggerConfig()
	cfg.Output = stderr
	cfg.Level = util.LogLevel(a.v.GetString(logLevelKey))
	if a.v.GetBool(verboseKey) {
		cfg.Level = util.LevelDebug
	}
	if path := a.v.GetString(logFileKey); path != "" {
		f := util.RotatingFile(path)
		a.closers = append(a.closers, f)
		cfg.Output = f
	}

	a.logger = util.NewLogger(cfg)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

// root returns the absolute project root.
func (a *app) root() (string, error) {
	root, err := filepath.Abs(a.v.GetString(dirKey))
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return root, nil
}

// loadProject returns the project root and its settings.
func (a *app) loadProject() (string, config.Project, error) {
	root, err := a.root()
	if err != nil {
		return "", config.Project{}, err
	}
	project, err := config.Load(root)
	if err != nil {
		return "", config.Project{}, err
	}
	return root, project, nil
}

// newExtractor builds a cached extractor for strategy. The returned cleanup
// releases the parser pool, if one was created.
func (a *app) newExtractor(strategy extract.Strategy) (*extract.Cached, func(), error) {
	var manager *parser.Manager
	cleanup := func() {}
	if strategy == extract.StrategyAST {
		manager = parser.NewManager(a.logger, 0)
		cleanup = func() { _ = manager.Close() }
	}

	ex, err := extract.New(strategy, manager, a.logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cache, err := source.NewCache[[]string](source.DefaultCacheSize, a.logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return extract.NewCached(ex, cache), cleanup, nil
}

// orchestrator loads the project and builds an Orchestrator using the
// extractor override when non-empty.
func (a *app) orchestrator(override string) (*integrate.Orchestrator, *extract.Cached, func(), error) {
	root, project, err := a.loadProject()
	if err != nil {
		return nil, nil, nil, err
	}
	if override != "" {
		project.Extractor = extract.Strategy(override)
	}

	ex, cleanup, err := a.newExtractor(project.Extractor)
	if err != nil {
		return nil, nil, nil, err
	}
	o, err := integrate.New(root, project, ex, a.logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return o, ex, cleanup, nil
}

// componentArgs maps <name> <display-name> <description> [icon] [category].
func componentArgs(args []string) component.Config {
	cfg := component.Config{Name: args[0], DisplayName: args[1], Description: args[2]}
	if len(args) > 3 {
		cfg.Icon = args[3]
	}
	if len(args) > 4 {
		cfg.Category = args[4]
	}
	return cfg
}

// userArgs reports positional argument mistakes as user input errors so they
// are printed with usage.
func userArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &component.UserInputError{Field: "arguments", Reason: err.Error()}
		}
		return nil
	}
}

// printError reports err with whatever remediation applies. cmd is the
// command that failed, or nil outside of command execution.
func printError(w io.Writer, cmd *cobra.Command, err error) {
	fmt.Fprintf(w, "%s %v\n", errorMarker(), err)

	var missing *integrate.MissingSourceError
	var input *component.UserInputError
	switch {
	case errors.As(err, &missing):
		fmt.Fprintln(w)
		fmt.Fprintln(w, missing.Remediation())
	case errors.As(err, &input):
		if cmd != nil {
			fmt.Fprintln(w)
			fmt.Fprint(w, cmd.UsageString())
		}
		fmt.Fprintln(w, "Run 'blocksmith help' for usage.")
	case errors.Is(err, fetch.ErrMissingCredential):
		fmt.Fprintln(w, "Set the API key in the environment or the project env file, then retry.")
	case errors.Is(err, fetch.ErrInvalidCredential):
		fmt.Fprintln(w, "The API key was rejected. Check that it is current and has access to pro components.")
	case errors.Is(err, fetch.ErrNotFound):
		fmt.Fprintln(w, "Check the component name at https://ui.aceternity.com/components.")
	}
}
