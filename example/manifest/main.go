package main

import (
	"flag"
	"fmt"

	"github.com/carbocation/permutevcf"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

func main() {
	path := flag.String("manifest", "", "Filename of the manifest written by permutevcf -manifest")
	every := flag.Int("every", 30, "Print every Nth assignment")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No manifest found")
	}

	expanded, err := permutevcf.ExpandHome(*path)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	m, err := permutevcf.OpenManifest(expanded)
	if err != nil {
		log.Fatalln(err)
	}
	defer m.Close()

	meta, err := m.Metadata()
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Manifest metadata: %+v\n", *meta)

	contigs, err := m.Contigs()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Genome has", len(contigs), "contigs and", contigs.Total(), "bases")

	rows, err := m.DB.Queryx("SELECT * FROM Assignment ORDER BY stream ASC, variant ASC")
	if err != nil {
		log.Fatalln(err)
	}
	defer rows.Close()

	i := 0
	var row permutevcf.AssignmentRecord
	for rows.Next() {
		if err := rows.StructScan(&row); err != nil {
			log.Fatalln(err)
		}
		if *every > 0 && i%*every == 0 {
			fmt.Printf("%d) stream %d variant %d %s: %s:%d -> %s:%d (margin %d)\n", i, row.Stream, row.Variant, row.ID,
				row.OriginalChromosome, row.OriginalPosition, row.Chromosome, row.Position, row.Margin)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		log.Fatalln(err)
	}

	log.Println("Saw", i, "assignments across", meta.Streams, "streams")
}
