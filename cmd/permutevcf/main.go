// permutevcf writes copies of a VCF in which every variant has been moved to
// a uniformly random position at which it still fits on its new contig. The
// copies are null datasets for structural variant enrichment tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/carbocation/permutevcf"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := DefaultConfig()

	flag.IntVar(&cfg.Streams, "n", cfg.Streams, "Number of permutations to run")
	flag.IntVar(&cfg.Streams, "permutations", cfg.Streams, "Number of permutations to run (same as -n)")
	flag.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Directory (or gs:// prefix) where permutations should be output")
	flag.StringVar(&cfg.OutputDir, "output-directory", cfg.OutputDir, "Same as -o")
	flag.Int64Var(&cfg.Seed, "seed", 0, "Random seed. If omitted, one is picked from the clock; it is logged either way")
	flag.StringVar(&cfg.Compression, "compression", cfg.Compression, "Output compression: none, gzip or zstd")
	flag.StringVar(&cfg.Manifest, "manifest", "", "Optional path of a new SQLite database recording every assignment")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.vcf[.gz]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Given a VCF file, create a series of new VCF files containing the same variants, but in random positions.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	cfg.Input = flag.Arg(0)
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return pfx.Err(err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	compression, _ := permutevcf.ParseCompression(cfg.Compression)

	started := time.Now()
	log.Infof("Opening %s", cfg.Input)
	input, err := permutevcf.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	log.WithFields(log.Fields{
		"contigs":     len(input.Contigs),
		"bases":       input.Contigs.Total(),
		"compression": input.Compression,
	}).Info("Read header")

	cache, err := permutevcf.NewTableCache(input.Contigs)
	if err != nil {
		return pfx.Err(err)
	}
	cache.OnBuild = func(t *permutevcf.OffsetTable) {
		log.Debugf("Built offset table for margin %d: %d contigs, %d positions", t.Margin(), t.Len(), t.Total())
	}

	log.Infof("Using seed %d", cfg.Seed)
	driver, err := permutevcf.NewDriver(permutevcf.NewSeededSampler(cache, cfg.Seed), cfg.Streams)
	if err != nil {
		return pfx.Err(err)
	}

	// The manifest is created first: it refuses an existing path, and that
	// must be caught before any stream is truncated.
	var manifest *permutevcf.Manifest
	if cfg.Manifest != "" {
		manifest, err = permutevcf.CreateManifest(cfg.Manifest, permutevcf.ManifestMetadata{
			Input:        cfg.Input,
			Streams:      cfg.Streams,
			Seed:         cfg.Seed,
			CreationTime: permutevcf.Time(started),
		}, input.Contigs)
		if err != nil {
			return err
		}
	}

	streams, err := permutevcf.CreateStreams(cfg.OutputDir, cfg.Streams, input, compression)
	if err != nil {
		if manifest != nil {
			manifest.Close()
			os.Remove(cfg.Manifest)
		}
		return err
	}

	sinks := []permutevcf.AssignmentSink{streams}
	if manifest != nil {
		sinks = append(sinks, manifest)
	}

	n, runErr := driver.Run(input.NewVariantReader(), permutevcf.MultiSink(sinks...))

	// Outputs are closed even after a failed run so that no descriptors leak,
	// but the run error takes precedence.
	closeErr := streams.Close()
	if manifest != nil {
		if err := manifest.Close(); closeErr == nil {
			closeErr = err
		}
	}

	if runErr != nil {
		return pfx.Err(runErr)
	}
	if closeErr != nil {
		return closeErr
	}

	log.WithFields(log.Fields{
		"variants": n,
		"streams":  cfg.Streams,
		"elapsed":  time.Since(started).String(),
	}).Infof("Wrote permutations to %s", cfg.OutputDir)

	return nil
}
