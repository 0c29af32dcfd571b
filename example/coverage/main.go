package main

import (
	"flag"
	"fmt"
	"runtime"
	"sync"

	"github.com/carbocation/permutevcf"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// ContigTally accumulates, per contig, how many draws landed there and how
// many were expected under uniform placement.
type ContigTally struct {
	Observed map[string]float64
	Expected map[string]float64
}

func NewContigTally() ContigTally {
	return ContigTally{
		Observed: make(map[string]float64),
		Expected: make(map[string]float64),
	}
}

func (c ContigTally) Add(o ContigTally) {
	for k, v := range o.Observed {
		c.Observed[k] += v
	}
	for k, v := range o.Expected {
		c.Expected[k] += v
	}
}

func main() {
	path := flag.String("vcf", "", "Filename of the VCF whose variants should be placed")
	draws := flag.Int("draws", 1000, "Positions to draw for each variant")
	seed := flag.Int64("seed", 1, "Seed of the first worker; worker i uses seed+i")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No VCF file found")
	}

	expanded, err := permutevcf.ExpandHome(*path)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	vcf, err := permutevcf.Open(expanded)
	if err != nil {
		log.Fatalln(err)
	}
	defer vcf.Close()

	// One cache for every worker; each worker has its own Sampler since a
	// Sampler is not safe for concurrent use.
	cache, err := permutevcf.NewTableCache(vcf.Contigs)
	if err != nil {
		log.Fatalln(err)
	}

	variants := make(chan *permutevcf.Variant)
	output := make(chan ContigTally)

	log.Println("Launching", runtime.NumCPU(), "workers")
	var wg sync.WaitGroup
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := Worker(permutevcf.NewSeededSampler(cache, *seed+int64(workerID)), cache, *draws, variants, output); err != nil {
				log.Fatalln(err)
			}
		}(i)
	}

	accumulator := NewContigTally()
	done := make(chan struct{})
	go func() {
		for o := range output {
			accumulator.Add(o)
		}
		close(done)
	}()

	vr := vcf.NewVariantReader()
	for v := vr.Read(); v != nil; v = vr.Read() {
		variants <- v
	}
	close(variants)
	wg.Wait()
	close(output)
	<-done

	if vr.Error() != nil {
		log.Fatalln("VR error:", vr.Error())
	}

	log.Println("Placed", vr.VariantsSeen, "variants using", cache.Len(), "offset tables")
	for _, contig := range vcf.Contigs {
		observed, expected := accumulator.Observed[contig.Name], accumulator.Expected[contig.Name]
		ratio := 0.0
		if expected > 0 {
			ratio = observed / expected
		}
		fmt.Printf("%s\t%d\t%.0f\t%.1f\t%.3f\n", contig.Name, contig.Length, observed, expected, ratio)
	}
}

// Worker places each incoming variant draws times and reports where the
// draws landed relative to where they should have landed.
func Worker(sampler *permutevcf.Sampler, cache *permutevcf.TableCache, draws int, variants <-chan *permutevcf.Variant, output chan<- ContigTally) error {
	for v := range variants {
		margin := permutevcf.Margin(v)

		positions, err := sampler.Sample(margin, draws)
		if err != nil {
			return fmt.Errorf("%s:%d %s: %w", v.Chromosome, v.Position, v.ID, err)
		}

		table, err := cache.Table(margin)
		if err != nil {
			return err
		}

		tally := NewContigTally()
		for _, pos := range positions {
			tally.Observed[pos.Contig]++
		}
		for _, e := range table.Entries() {
			tally.Expected[e.Contig] += float64(draws) * float64(e.Length) / float64(table.Total())
		}

		output <- tally
	}

	return nil
}
