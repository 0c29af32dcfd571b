package permutevcf

import (
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

const manifestSchema = `
CREATE TABLE Metadata (
	input TEXT NOT NULL,
	streams INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	creation_time INTEGER NOT NULL
);
CREATE TABLE Contig (
	ord INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	length INTEGER NOT NULL
);
CREATE TABLE Assignment (
	stream INTEGER NOT NULL,
	variant INTEGER NOT NULL,
	id TEXT NOT NULL,
	original_chromosome TEXT NOT NULL,
	original_position INTEGER NOT NULL,
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	margin INTEGER NOT NULL,
	PRIMARY KEY (stream, variant)
);
`

const insertAssignment = `INSERT INTO Assignment
(stream, variant, id, original_chromosome, original_position, chromosome, position, margin)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Manifest is a SQLite record of every assignment made during a run, so that
// permuted records can be traced back to their input lines.
type Manifest struct {
	DB *sqlx.DB

	// Only set for manifests opened for writing
	tx     *sqlx.Tx
	insert *sqlx.Stmt
}

// ManifestMetadata conforms to the single row of the "Metadata" table.
type ManifestMetadata struct {
	Input        string `db:"input"`
	Streams      int    `db:"streams"`
	Seed         int64  `db:"seed"`
	CreationTime Time   `db:"creation_time"`
}

// AssignmentRecord conforms to the rows of the "Assignment" table.
type AssignmentRecord struct {
	Stream             int    `db:"stream"`
	Variant            int    `db:"variant"`
	ID                 string `db:"id"`
	OriginalChromosome string `db:"original_chromosome"`
	OriginalPosition   int64  `db:"original_position"`
	Chromosome         string `db:"chromosome"`
	Position           int64  `db:"position"`
	Margin             int64  `db:"margin"`
}

type contigRow struct {
	Ord    int    `db:"ord"`
	Name   string `db:"name"`
	Length int64  `db:"length"`
}

func connectManifest(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	return sqlx.Connect(whichSQLiteDriver, path)
}

// CreateManifest creates a new manifest at path, which must not exist yet,
// and records the run metadata and genome. Assignments are written in a
// single transaction that is committed by Close.
func CreateManifest(path string, meta ManifestMetadata, contigs ContigLengths) (*Manifest, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, pfx.Err(fmt.Errorf("manifest %s already exists", path))
	}

	db, err := connectManifest(path)
	if err != nil {
		os.Remove(path)
		return nil, pfx.Err(err)
	}
	m := &Manifest{DB: db}

	// A half-written manifest would block the next run at the existence check
	// above, so every failure from here on removes the file.
	fail := func(err error) (*Manifest, error) {
		if m.tx != nil {
			m.tx.Rollback()
		}
		db.Close()
		os.Remove(path)
		return nil, pfx.Err(err)
	}

	// The manifest is rebuilt from scratch if a run fails, so durability is
	// not needed.
	if _, err := db.DB.Exec(`
	PRAGMA journal_mode = OFF;
	PRAGMA synchronous = OFF;
	`); err != nil {
		return fail(fmt.Errorf("unable to set pragmas: %w", err))
	}

	if _, err := db.Exec(manifestSchema); err != nil {
		return fail(err)
	}

	if m.tx, err = db.Beginx(); err != nil {
		m.tx = nil
		return fail(err)
	}

	if err := m.writeHeader(meta, contigs); err != nil {
		return fail(err)
	}

	if m.insert, err = m.tx.Preparex(insertAssignment); err != nil {
		return fail(err)
	}

	return m, nil
}

func (m *Manifest) writeHeader(meta ManifestMetadata, contigs ContigLengths) error {
	if _, err := m.tx.NamedExec(`INSERT INTO Metadata (input, streams, seed, creation_time)
	VALUES (:input, :streams, :seed, :creation_time)`, meta); err != nil {
		return err
	}

	for i, contig := range contigs {
		if _, err := m.tx.NamedExec(`INSERT INTO Contig (ord, name, length) VALUES (:ord, :name, :length)`,
			contigRow{Ord: i, Name: contig.Name, Length: contig.Length}); err != nil {
			return err
		}
	}

	return nil
}

// OpenManifest opens an existing manifest for reading.
func OpenManifest(path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, pfx.Err(err)
	}

	db, err := connectManifest(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Manifest{DB: db}, nil
}

// Assign records one assignment.
func (m *Manifest) Assign(v *Variant, a Assignment) error {
	if m.insert == nil {
		return pfx.Err(fmt.Errorf("manifest was opened read-only"))
	}

	_, err := m.insert.Exec(a.Stream, a.Variant, v.ID, v.Chromosome, v.Position, a.Position.Contig, a.Position.Position, a.Margin)
	if err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Close commits pending assignments, if any, and closes the database.
func (m *Manifest) Close() error {
	var err error

	if m.insert != nil {
		m.insert.Close()
		m.insert = nil
	}

	if m.tx != nil {
		err = m.tx.Commit()
		m.tx = nil
	}

	if cerr := m.DB.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return pfx.Err(err)
	}
	return nil
}

func (m *Manifest) Metadata() (*ManifestMetadata, error) {
	meta := &ManifestMetadata{}
	if err := m.DB.Get(meta, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		return nil, pfx.Err(err)
	}

	return meta, nil
}

// Contigs returns the genome the run sampled from, in header order.
func (m *Manifest) Contigs() (ContigLengths, error) {
	var rows []contigRow
	if err := m.DB.Select(&rows, "SELECT ord, name, length FROM Contig ORDER BY ord ASC"); err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]Contig, 0, len(rows))
	for _, row := range rows {
		out = append(out, Contig{Name: row.Name, Length: row.Length})
	}

	return NewContigLengths(out)
}

// Assignments returns the assignments of one stream in input order.
func (m *Manifest) Assignments(stream int) ([]AssignmentRecord, error) {
	var out []AssignmentRecord
	if err := m.DB.Select(&out, "SELECT * FROM Assignment WHERE stream = ? ORDER BY variant ASC", stream); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}
