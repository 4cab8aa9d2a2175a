// Package tabular serializes row sets to CSV files and applies the
// structural anomalies a file may call for: an alternate delimiter, a UTF-8
// byte order mark, Windows-1251 encoding, or raw damaged lines.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/encoding/charmap"
)

// bom is the UTF-8 byte order mark some export tools prepend to files.
const bom = "\uFEFF"

// damagedSuffix is glued directly to the last field of a corrupted line.
const damagedSuffix = "broken_data"

// damagedLineRate is the fraction of rows replaced by corrupted raw lines
// when damage is requested.
const damagedLineRate = 0.05

// Options controls how one file is serialized. The zero value writes plain
// comma-separated UTF-8.
type Options struct {
	// Delimiter overrides the comma when non-zero.
	Delimiter rune

	// BOM prepends a UTF-8 byte order mark. Ignored when Legacy is set.
	BOM bool

	// Legacy encodes the whole file as Windows-1251 instead of UTF-8.
	Legacy bool

	// Damage replaces a small fraction of rows with corrupted raw lines.
	Damage bool
}

// Row is any record serializable in its table's header order.
type Row interface {
	Fields() []string
}

// Records serializes a row slice for WriteFile.
func Records[R Row](rows []R) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Fields()
	}
	return out
}

// Writer writes CSV files. The faker drives the damaged-line dice rolls, so
// a seeded run corrupts the same rows.
type Writer struct {
	fake *gofakeit.Faker
}

// NewWriter returns a Writer using fake for randomness.
func NewWriter(fake *gofakeit.Faker) *Writer {
	return &Writer{fake: fake}
}

// WriteFile serializes header plus rows to path. An empty row set produces a
// header-only file. On any error the partial file is removed, so a file on
// disk is always complete.
func (w *Writer) WriteFile(path string, header []string, rows [][]string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := w.write(f, header, rows, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (w *Writer) write(f *os.File, header []string, rows [][]string, opts Options) error {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	var out io.Writer = f
	switch {
	case opts.Legacy:
		// The legacy code page replaces the BOM variant when both apply.
		out = charmap.Windows1251.NewEncoder().Writer(f)
	case opts.BOM:
		if _, err := f.WriteString(bom); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(out)
	cw.Comma = delim
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		if opts.Damage && w.fake.Float64Range(0, 1) < damagedLineRate {
			// Raw line bypassing the CSV encoder, garbage glued to the last
			// field. Flush first so the line lands in order.
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			line := strings.Join(row, string(delim)) + damagedSuffix + "\n"
			if _, err := io.WriteString(out, line); err != nil {
				return err
			}
			continue
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
