package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/aeprobe/internal/analyzer"
	"github.com/danmuck/aeprobe/internal/catalog"
	"github.com/danmuck/aeprobe/internal/config"
	"github.com/danmuck/aeprobe/internal/logging"
	"github.com/danmuck/aeprobe/internal/observability"
	"github.com/danmuck/aeprobe/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "aeprobe: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("missing argument")

// app carries the loaded configuration into command actions.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{cfg: config.Default(), stdout: stdout, stderr: stderr}
	return a.cli().Run(args)
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:      "aeprobe",
		Usage:     "extract After Effects project structure and version information",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML config `FILE`", EnvVars: []string{"AEPROBE_CONFIG"}},
			&cli.StringFlag{Name: "log-level", Usage: "override the configured log level"},
			&cli.BoolFlag{Name: "metrics", Usage: "dump metrics to stderr on exit"},
		},
		Before: a.before,
		After: func(c *cli.Context) error {
			if !c.Bool("metrics") {
				return nil
			}
			return observability.WriteText(a.stderr)
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "project",
				Usage:     "parse an analysis stream and print the project as JSON",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "summary", Usage: "print a text overview instead of JSON"},
				},
				Action: a.project,
			},
			{
				Name:      "version",
				Usage:     "identify the application version that saved project files",
				ArgsUsage: "<file.aep>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "catalog", Usage: "signature catalog `FILE` (.json or .toml)"},
				},
				Action: a.version,
			},
			{
				Name:      "encode",
				Usage:     "parse an analysis stream and write it back in normalized form",
				ArgsUsage: "<file>",
				Action:    a.encode,
			},
			{
				Name:  "config",
				Usage: "manage the config file",
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "write a config template",
						ArgsUsage: "<path>",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
						},
						Action: a.configInit,
					},
				},
			},
		},
	}
}

func (a *app) before(c *cli.Context) error {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if lvl := c.String("log-level"); lvl != "" {
		if _, ok := logging.ParseLevel(lvl); !ok {
			return fmt.Errorf("unknown log level %q", lvl)
		}
		a.cfg.LogLevel = lvl
	}
	logging.SetLevel(a.cfg.LogLevel)
	log.Debug().Msgf("aeprobe.before catalog=%q concurrency=%d", a.cfg.Catalog, a.cfg.Concurrency)
	return nil
}

func (a *app) project(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("project: %w: expected one analysis file", errUsage)
	}
	p, err := analyzer.New(nil).WithMaxLineBytes(a.cfg.MaxLineBytes).AnalyzeOutput(c.Args().First())
	if err != nil {
		return err
	}
	if c.Bool("summary") {
		return p.Summary(a.stdout)
	}
	return a.writeJSON(p)
}

func (a *app) version(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("version: %w: expected at least one .aep file", errUsage)
	}
	cat, err := a.catalog(c.String("catalog"))
	if err != nil {
		return err
	}
	an := analyzer.New(cat)

	if c.NArg() == 1 {
		report, err := an.InspectVersion(c.Args().First())
		if err != nil {
			return err
		}
		return a.writeJSON(report)
	}
	reports, err := an.InspectVersions(c.Context, c.Args().Slice(), a.cfg.Concurrency)
	if err != nil {
		return err
	}
	return a.writeJSON(reports)
}

// catalog loads an explicitly requested catalog strictly and the configured
// one leniently.
func (a *app) catalog(flagPath string) (*catalog.Catalog, error) {
	if flagPath != "" {
		return catalog.Load(flagPath)
	}
	return catalog.LoadOrEmpty(a.cfg.Catalog), nil
}

func (a *app) encode(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("encode: %w: expected one analysis file", errUsage)
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrIO, err)
	}
	defer f.Close()

	root, err := protocol.NewParser().WithMaxLineBytes(a.cfg.MaxLineBytes).Parse(f)
	if err != nil {
		return err
	}
	return protocol.Encode(a.stdout, root)
}

func (a *app) configInit(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("config init: %w: expected a target path", errUsage)
	}
	path := c.Args().First()
	if err := config.WriteTemplate(path, c.Bool("force")); err != nil {
		return err
	}
	log.Info().Msgf("aeprobe.config wrote template path=%s", path)
	return nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", a.cfg.Indent)
	return enc.Encode(v)
}
