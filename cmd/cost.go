package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rubiojr/netscript/ramcost"
)

type costReport struct {
	Path   string `json:"path"`
	Cached bool   `json:"cached,omitempty"`
	ramcost.Result
}

func costAction(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	var dc *ramcost.DiskCache
	if cmd.Bool("cache") {
		dir := s.cfg.Cache.Dir
		if dir == "" {
			if dir, err = ramcost.DefaultDiskCacheDir(); err != nil {
				return fmt.Errorf("cache dir: %w", err)
			}
		}
		if dc, err = ramcost.OpenDiskCache(dir, s.cfg.Cache.MaxBytes); err != nil {
			return err
		}
	}

	jobs := int(cmd.Int("jobs"))
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]costReport, len(s.paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(s.paths)))
	for i, p := range s.paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				res ramcost.Result
				hit bool
				err error
			)
			if dc != nil {
				res, hit, err = s.eng.ComputeCostCached(dc, s.server, p)
			} else {
				res, err = s.eng.ComputeCost(s.server, p)
			}
			if err != nil {
				return err
			}
			reports[i] = costReport{Path: p, Cached: hit, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	out := newPrinter(cmd.Bool("no-color"))
	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			out.failure(r.Path, r.Err.Error())
			failed++
			continue
		}
		out.header(fmt.Sprintf("%s: %s", r.Path, formatRAM(r.Cost)))
		for _, e := range ramcost.SortEntries(r.Entries) {
			out.detail(fmt.Sprintf("  %-6s %-40s %s", e.Type, e.Name, formatRAM(e.Cost)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d script(s) could not be costed", failed)
	}
	return nil
}

func formatRAM(gb float64) string {
	return fmt.Sprintf("%.2fGB", gb)
}
