// Package cli implements the typeschema command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"typeschema/internal/assemble"
	"typeschema/internal/config"
	"typeschema/internal/load"
	"typeschema/internal/logging"
	"typeschema/internal/output"
	"typeschema/internal/schema"
)

const usageLine = "typeschema <import-name> <search-path> [version-name]"

// usageError marks errors that are answered with the usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// App holds what a command run needs from its environment.
type App struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Importer func(env []string) assemble.Importer
	Clock    func() time.Time
}

// DefaultApp runs against the process streams and the go command.
func DefaultApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Importer: func(env []string) assemble.Importer {
			return load.NewImporter(load.WithEnv(env...))
		},
		Clock: time.Now,
	}
}

type flags struct {
	configFile string
	verbose    bool
}

// NewRootCommand builds the command tree with its own viper instance.
func (a *App) NewRootCommand() *cobra.Command {
	v := viper.New()
	f := &flags{}

	root := &cobra.Command{
		Use:   usageLine,
		Short: "Describe the exported API of a Go package as JSON",
		Long: `typeschema loads a Go package and its immediate sub-packages and prints
their exported functions, types and constants with resolved type
descriptors, the package version and its annotation coverage.

A package that cannot be imported yields {"error": "..."} and exit code 0.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return &usageError{err: errors.Errorf("requires at least 2 arguments, received %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := assemble.Request{ImportName: args[0], SearchPath: args[1]}
			if len(args) > 2 {
				req.VersionName = args[2]
			}

			return a.extract(cmd.Context(), v, f, req)
		},
	}

	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default is ./"+config.FileName+".yaml)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.String("format", string(output.JSON), "output format: json or yaml")
	pf.Int("indent", 2, "indentation width, 0 for compact JSON")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	_ = v.BindPFlag("format", pf.Lookup("format"))
	_ = v.BindPFlag("indent", pf.Lookup("indent"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))

	root.AddCommand(a.newVersionCommand())

	return root
}

func (a *App) extract(ctx context.Context, v *viper.Viper, f *flags, req assemble.Request) error {
	loader := config.NewLoader(v, f.configFile, ".")
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	if f.verbose {
		level = slog.LevelDebug
	}
	ctx = logging.WithLogger(ctx, logging.New(a.Stderr, logging.Options{Level: level, Color: cfg.Color}))
	if used := loader.Used(); used != "" {
		slogctx.Debug(ctx, "config loaded", "file", used)
	}

	format, _ := cfg.OutputFormat()
	w := output.New(format, cfg.Indent)

	asm := assemble.New(a.Importer(cfg.Env), assemble.WithClock(a.Clock))
	res, err := asm.Run(ctx, req)
	if err != nil {
		var importErr *assemble.ImportError
		if errors.As(err, &importErr) {
			slogctx.Debug(ctx, "import failed", "error", importErr.Err)
			return w.Write(a.Stdout, schema.Failure{Error: importErr.Error()})
		}
		return err
	}

	return w.Write(a.Stdout, res.Schema)
}

// Run executes the command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}

	root := a.NewRootCommand()
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintln(a.Stderr, "Error:", err)

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprint(a.Stderr, cmd.UsageString())
	}

	return 1
}

// Execute runs the CLI against the process environment.
func Execute(ctx context.Context) int {
	return DefaultApp().Run(ctx, os.Args[1:])
}
