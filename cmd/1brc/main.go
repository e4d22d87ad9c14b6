// 1brc computes min/avg/max per station over a file of "station;value" lines.
//
// data:
//
// Tamale;27.5
// Bergen;9.6
// Lodwar;37.1
// Whitehorse;-3.8
// Ouarzazate;19.1
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"golang.org/x/exp/slog"

	"github.com/miku/brcreduce/internal/engine"
	"github.com/miku/brcreduce/internal/report"
)

var (
	workers     = flag.Int("workers", runtime.NumCPU(), "number of partitions to split the file into")
	useMmap     = flag.Bool("mmap", true, "memory map the input file")
	timeout     = flag.Duration("timeout", 0, "abort after this duration, 0 means no timeout")
	cpuprofile  = flag.String("cpuprofile", "", "file to write cpu profile to")
	verbose     = flag.Bool("v", false, "debug logging to stderr")
	fingerprint = flag.Bool("fingerprint", false, "log a digest of count, min and max per station")
)

func main() {
	flag.Parse()
	fn := "measurements.txt"
	if flag.NArg() > 0 {
		fn = flag.Arg(0)
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := engine.Run(ctx, fn,
		engine.WithWorkers(*workers),
		engine.WithMmap(*useMmap),
		engine.WithTimeout(*timeout),
		engine.WithLogger(logger),
	)
	if err != nil {
		// log.Fatal would skip the deferred profile flush
		logger.Error("aggregation failed", "err", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
	if *fingerprint {
		logger.Info("fingerprint", "digest", fmt.Sprintf("%016x", report.Fingerprint(res.Table)),
			"keys", len(res.Table), "lines", res.Stats.Lines, "skipped", res.Stats.Skipped)
	}
	if err := report.Write(os.Stdout, res.Table); err != nil {
		log.Fatal(err)
	}
}
