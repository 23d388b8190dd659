// Package archive exports and imports the catalog as Apache Parquet files.
//
// It uses the segmentio/parquet-go library; one parquet row holds one entry.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/parquet-go"
	"github.com/vegasq/readinglist/internal/catalog"
)

// record is the on-disk layout of an entry.
type record struct {
	UID    string `parquet:"uid"`
	Title  string `parquet:"title"`
	Author string `parquet:"author"`
	Genre  string `parquet:"genre"`
	Format string `parquet:"format"`
	Status string `parquet:"status"`
	Tags   string `parquet:"tags"`
}

func toRecord(e *catalog.Entry) record {
	return record{
		UID:    e.UID,
		Title:  e.Title,
		Author: e.Author,
		Genre:  e.Genre,
		Format: e.Format.String(),
		Status: e.Status,
		Tags:   e.TagString(),
	}
}

func (r record) entry() catalog.Entry {
	return catalog.Entry{
		UID:    r.UID,
		Title:  r.Title,
		Author: r.Author,
		Genre:  r.Genre,
		Format: catalog.ParseFormat(r.Format),
		Status: r.Status,
		Tags:   catalog.SplitTags(r.Tags),
	}
}

// Write stores entries in a new parquet file at path, replacing any
// existing file.
func Write(path string, entries []catalog.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	records := make([]record, len(entries))
	for i := range entries {
		records[i] = toRecord(&entries[i])
	}

	writer := parquet.NewGenericWriter[record](file)
	if _, err := writer.Write(records); err != nil {
		file.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// Reader reads entries back from a parquet file.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens the parquet file at path.
//
// Returns an error if the file doesn't exist or is not a valid parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads every entry into memory. IDs are left zero; entries are
// identified by UID.
func (r *Reader) ReadAll() ([]catalog.Entry, error) {
	entries := make([]catalog.Entry, 0, r.pqFile.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer reader.Close()

	for {
		var row record
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		entries = append(entries, row.entry())
	}

	return entries, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Read is a convenience wrapper around NewReader and ReadAll.
func Read(path string) ([]catalog.Entry, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}
