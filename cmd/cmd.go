package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/netscript/config"
	"github.com/rubiojr/netscript/engine"
	"github.com/rubiojr/netscript/logger"
	"github.com/rubiojr/netscript/script"
)

// Execute runs the netscript CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "netscript",
		Usage:                  "Link scripts and compute their static RAM cost",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to " + config.FileName + " (searched upwards from the server directory by default)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "Server name (defaults to the directory name)",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "cost",
				Usage:     "Compute the RAM cost of scripts",
				ArgsUsage: "<dir> [file...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
					&cli.BoolFlag{
						Name:  "cache",
						Usage: "Reuse results stored on disk",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Scripts costed in parallel",
						Value:   1,
					},
				},
				Action: costAction,
			},
			{
				Name:      "check",
				Usage:     "Report loops that never await",
				ArgsUsage: "<dir> [file...]",
				Action:    checkAction,
			},
			{
				Name:      "link",
				Usage:     "Link a script and print its final code",
				ArgsUsage: "<dir> <file>",
				Action:    linkAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// session is a server loaded from a directory.
type session struct {
	eng    *engine.Engine
	cfg    config.Config
	server string
	paths  []string // scripts named on the command line, or all of them
}

func openSession(cmd *cli.Command) (*session, error) {
	if cmd.NArg() < 1 {
		return nil, fmt.Errorf("usage: netscript %s %s", cmd.Name, cmd.ArgsUsage)
	}
	dir := cmd.Args().First()
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	cfgPath := cmd.String("config")
	if cfgPath == "" {
		if found, ok, err := config.Find(dir); err != nil {
			return nil, err
		} else if ok {
			cfgPath = found
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	if err := logger.Init(level, os.Stderr); err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg, engine.WithLogger(logger.Get()))
	if err != nil {
		return nil, err
	}
	name := cmd.String("server")
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		name = filepath.Base(abs)
	}
	s := &session{eng: eng, cfg: cfg, server: name}

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !script.IsScript(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		code, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		return eng.WriteScript(name, filepath.ToSlash(rel), string(code))
	})
	if err != nil {
		return nil, err
	}

	for _, arg := range cmd.Args().Tail() {
		p, err := script.ResolvePath(filepath.ToSlash(arg), "")
		if err != nil {
			return nil, err
		}
		s.paths = append(s.paths, p)
	}
	if len(s.paths) == 0 {
		if s.paths, err = eng.Scripts(name); err != nil {
			return nil, fmt.Errorf("no scripts found in %s", dir)
		}
	}
	return s, nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.Bool("no-color"))
	total := 0
	for _, p := range s.paths {
		findings, err := s.eng.Lint(s.server, p)
		if err != nil {
			out.failure(p, err.Error())
			total++
			continue
		}
		for _, f := range findings {
			out.warning(fmt.Sprintf("%s:%d", p, f.Line), f.Msg)
		}
		total += len(findings)
	}
	if total > 0 {
		return fmt.Errorf("%d problem(s) found", total)
	}
	return nil
}

func linkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return fmt.Errorf("usage: netscript link <dir> <file>")
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	target := s.paths[0]
	u, err := s.eng.CompileScript(ctx, s.server, target)
	if err != nil {
		return err
	}
	deps, err := s.eng.Dependencies(s.server, target)
	if err != nil {
		return err
	}
	out := newPrinter(cmd.Bool("no-color"))
	out.header(fmt.Sprintf("%s -> %s", target, u.URL()))
	for _, d := range deps {
		out.detail(fmt.Sprintf("  %s -> %s", d.Path, d.URL))
	}
	fmt.Println()
	fmt.Print(u.Code())
	if !strings.HasSuffix(u.Code(), "\n") {
		fmt.Println()
	}
	return nil
}
