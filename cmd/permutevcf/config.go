package main

import (
	"fmt"
	"time"

	"github.com/carbocation/permutevcf"
	log "github.com/sirupsen/logrus"
)

// Config holds everything a permutation run needs from the command line.
type Config struct {
	Input       string
	OutputDir   string
	Streams     int
	Seed        int64
	Compression string
	Manifest    string
	LogLevel    string

	// SeedSet marks Seed as chosen by the user, so that 0 is a valid seed.
	SeedSet bool
}

// DefaultConfig mirrors the flag defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir:   "permutations/",
		Streams:     1,
		Compression: permutevcf.CompressionGzip.String(),
		LogLevel:    log.InfoLevel.String(),
	}
}

// Validate checks the config and expands ~/ in paths. If no seed was set, a
// time-based one is chosen.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("an input VCF is required")
	}

	if c.Streams < 1 {
		return fmt.Errorf("the number of permutations must be at least 1, got %d", c.Streams)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("an output directory is required")
	}

	if _, err := permutevcf.ParseCompression(c.Compression); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	for _, path := range []*string{&c.Input, &c.OutputDir, &c.Manifest} {
		expanded, err := permutevcf.ExpandHome(*path)
		if err != nil {
			return err
		}
		*path = expanded
	}

	if !c.SeedSet {
		c.Seed = time.Now().UnixNano()
		c.SeedSet = true
	}

	return nil
}
