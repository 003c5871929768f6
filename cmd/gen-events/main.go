// Command gen-events writes a synthetic event file in the nested layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/pionscan/internal/eventgen"
	"github.com/okian/pionscan/pkg/logger"
)

const (
	defaultEvents       = 1000
	defaultMinParticles = 1
	defaultMaxParticles = 50
)

func main() {
	var (
		events  = flag.Int("events", defaultEvents, "Number of events to generate")
		minP    = flag.Int("min-particles", defaultMinParticles, "Minimum particles per event")
		maxP    = flag.Int("max-particles", defaultMaxParticles, "Maximum particles per event")
		seed    = flag.Uint64("seed", 1, "Random seed")
		flat    = flag.Bool("flat", false, "Write one header followed by every particle")
		outPath = flag.String("out", "", "Output file (default stdout)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Get().Named("gen-events")

	if *minP < 0 || *maxP < *minP {
		log.Fatal(ctx, "invalid particle range", logger.Int("min", *minP), logger.Int("max", *maxP))
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(ctx, "failed to create output", logger.String("path", *outPath), logger.Error(err))
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Error(ctx, "failed to close output", logger.Error(err))
			}
		}()
		out = f
	}

	st, err := eventgen.New(
		eventgen.WithEvents(*events),
		eventgen.WithParticleRange(*minP, *maxP),
		eventgen.WithSeed(*seed),
		eventgen.WithFlat(*flat),
	).Write(out)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		return
	}
	log.Info(ctx, "events written",
		logger.Int("events", st.Events),
		logger.Int("particles", st.Particles),
		logger.Int("positive", st.Positive),
		logger.Int("negative", st.Negative),
	)
}
