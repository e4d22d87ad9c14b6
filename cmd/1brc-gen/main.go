// 1brc-gen writes a synthetic measurements file, by default one billion rows,
// drawing station names from a list like weather_stations.csv.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"

	"golang.org/x/exp/slog"

	"github.com/miku/brcreduce/internal/gen"
)

var (
	stationsFile = flag.String("stations", "weather_stations.csv", "station list, first field is the name")
	rows         = flag.Int("rows", 1_000_000_000, "number of rows to generate")
	chunkRows    = flag.Int("chunk", gen.DefaultChunkRows, "rows per generated chunk")
	workers      = flag.Int("workers", runtime.NumCPU(), "number of parallel generators")
	seed         = flag.Uint64("seed", 0, "base seed")
	appendMode   = flag.Bool("append", false, "append to the output file instead of truncating it")
)

func main() {
	flag.Parse()
	fn := "measurements.txt"
	if flag.NArg() > 0 {
		fn = flag.Arg(0)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sf, err := os.Open(*stationsFile)
	if err != nil {
		log.Fatal(err)
	}
	stations, err := gen.ReadStations(sf)
	sf.Close()
	if err != nil {
		log.Fatal(err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if *appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(fn, flags, 0644)
	if err != nil {
		log.Fatal(err)
	}
	bw := bufio.NewWriterSize(f, 10<<20)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger.Info("generating", "rows", *rows, "stations", len(stations), "workers", *workers, "output", fn)
	err = gen.Generate(ctx, bw, stations, *rows,
		gen.WithChunkRows(*chunkRows),
		gen.WithWorkers(*workers),
		gen.WithSeed(*seed),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	logger.Info("done", "output", fn)
}
