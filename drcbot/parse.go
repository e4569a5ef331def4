package drcbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/piperpilot/DRCBotV2/configurator"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

// fileResult is the outcome of parsing one file. Exactly one of Model and
// Err is set.
type fileResult struct {
	Path    string
	Model   *gerbparser.Model
	Err     error
	Elapsed time.Duration
}

var errNoOutFile = errors.New("msgpack output needs --out")

func (a *app) parseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse Gerber files and print a summary of each",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runParse,
	}
	f := cmd.Flags()
	f.String("format", configurator.FormatText, "output format (text|msgpack)")
	f.String("out", "", "snapshot file written with --format msgpack")
	f.Int("workers", 4, "number of files parsed in parallel")
	f.Bool("commands", false, "print the command stream")
	f.Bool("apertures", true, "print the aperture table")
	bindFlags(a.v, f, map[string]string{
		"format":    configurator.CfgOutputFormat,
		"out":       configurator.CfgOutputFile,
		"workers":   configurator.CfgParserWorkers,
		"commands":  configurator.CfgCommonPrintCommands,
		"apertures": configurator.CfgCommonPrintAperturesInfo,
	})
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	format := a.v.GetString(configurator.CfgOutputFormat)
	outFile := a.v.GetString(configurator.CfgOutputFile)
	if format == configurator.FormatMsgpack && outFile == "" {
		return errNoOutFile
	}

	logMemUsage("memory usage before parsing")
	results, err := parseFiles(cmd.Context(), args, a.v.GetInt(configurator.CfgParserWorkers),
		configurator.ParserOptions(a.v))
	if err != nil {
		return err
	}
	logMemUsage("memory usage after parsing")

	if format == configurator.FormatMsgpack {
		if err := writeSnapshotFile(outFile, results); err != nil {
			return err
		}
	} else {
		ro := reportOptions{
			apertures: a.v.GetBool(configurator.CfgCommonPrintAperturesInfo),
			commands:  a.v.GetBool(configurator.CfgCommonPrintCommands),
		}
		for _, r := range results {
			printReport(cmd.OutOrStdout(), r, ro)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// parseFiles reads and parses paths with at most workers files in flight.
// A file that can not be read or parsed is reported in its result, only a
// cancelled ctx is an error.
func parseFiles(ctx context.Context, paths []string, workers int, opts []gerbparser.Option) ([]fileResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			r := fileResult{Path: path}
			buf, err := os.ReadFile(path)
			if err == nil {
				r.Model, err = gerbparser.Parse(buf, opts...)
			}
			r.Err = err
			r.Elapsed = time.Since(start)
			// indexes are unique, no locking needed
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// logMemUsage logs the current, total and OS memory being used and the
// number of completed GC cycles.
func logMemUsage(header string) {
	logger := gerbparser.Logger()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	logger.Debug(header,
		"alloc_kb", bToKb(memStats.Alloc),
		"total_alloc_kb", bToKb(memStats.TotalAlloc),
		"sys_kb", bToKb(memStats.Sys),
		"num_gc", memStats.NumGC)
}

func bToKb(b uint64) uint64 {
	return b / 1024
}
