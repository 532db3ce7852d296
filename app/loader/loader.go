// Package loader reads the CDL and Challengers stat sheets into rating records.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

// ErrUnknownFormat is returned for files that are neither csv nor xlsx.
var ErrUnknownFormat = errors.New("unknown sheet format")

// ErrMissingColumns indicates that the sheet header lacks required columns.
type ErrMissingColumns []string

// Error returns the error message.
func (e ErrMissingColumns) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e, ", "))
}

// Format is a sheet file format.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// FormatOf detects the format by file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// ReadFile reads the sheet at path with the given schema.
func ReadFile(path string, schema Schema) ([]rating.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	recs, err := Read(f, format, schema)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}

// Read parses a sheet. The first row must be the header. Rows without a
// name or a valid role are skipped, as are CDL rows without a slayer rating.
func Read(r io.Reader, format Format, schema Schema) ([]rating.Record, error) {
	var rows [][]string
	var err error

	switch format {
	case CSV:
		rows, err = readCSV(r)
	case XLSX:
		rows, err = readXLSX(r)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	return parse(rows, schema)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parse(rows [][]string, schema Schema) ([]rating.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = idx
	}

	var missing ErrMissingColumns
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}

	recs := make([]rating.Record, 0, len(rows)-1)
	for idx, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		rec, ok := schema.record(row{cols: cols, cells: cells})
		if !ok {
			log.Printf("[DEBUG] %s sheet: skipping row %d: %v", schema, idx+2, cells)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Pools are the records of both source sheets.
type Pools struct {
	CDL         []rating.Record
	Challengers []rating.Record
}

// LoadPools reads both sheets concurrently.
func LoadPools(ctx context.Context, cdlPath, challengersPath string) (Pools, error) {
	var pools Pools

	ewg, ctx := errgroup.WithContext(ctx)
	load := func(path string, schema Schema, dst *[]rating.Record) func() error {
		return func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := ReadFile(path, schema)
			if err != nil {
				return fmt.Errorf("load %s pool: %w", schema, err)
			}
			log.Printf("[INFO] loaded %d %s records from %s", len(recs), schema, path)
			*dst = recs
			return nil
		}
	}

	ewg.Go(load(cdlPath, CDLSchema, &pools.CDL))
	ewg.Go(load(challengersPath, ChallengersSchema, &pools.Challengers))

	if err := ewg.Wait(); err != nil {
		return Pools{}, err
	}
	return pools, nil
}
