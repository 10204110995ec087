package boarding

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sourcegraph/conc/pool"
)

// Delimiter separates fields in a boarding export.
const Delimiter = ';'

// maxLoaders bounds how many export files are parsed at once.
const maxLoaders = 4

// ErrNoFiles is returned by LoadGlob when the pattern matches nothing.
var ErrNoFiles = errors.New("no boarding export matches")

// ColumnError reports required columns absent from an export header.
type ColumnError struct {
	File    string
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// Load reads and parses a single export file.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path))
}

// Parse decodes a semicolon-delimited export. name is only used in errors.
func Parse(r io.Reader, name string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	header, err := newReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty export", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &ColumnError{File: name, Missing: missing}
	}

	var rows []Row
	if err := gocsv.UnmarshalCSV(newReader(bytes.NewReader(data)), &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", name, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type fileRecords struct {
	index   int
	records []Record
}

// LoadGlob loads every export matching pattern concurrently and returns the
// records concatenated in lexical file-name order. A plain path is a valid
// pattern matching itself.
func LoadGlob(ctx context.Context, pattern string, logger *slog.Logger) ([]Record, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoFiles, pattern)
	}
	sort.Strings(files)

	p := pool.NewWithResults[fileRecords]().
		WithMaxGoroutines(maxLoaders).
		WithContext(ctx).
		WithCancelOnError()

	for i, file := range files {
		p.Go(func(ctx context.Context) (fileRecords, error) {
			if err := ctx.Err(); err != nil {
				return fileRecords{}, err
			}
			recs, err := Load(file)
			if err != nil {
				return fileRecords{}, err
			}
			logger.Info("boarding export loaded", "file", file, "rows", len(recs))
			return fileRecords{index: i, records: recs}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })
	var total int
	for _, r := range results {
		total += len(r.records)
	}
	out := make([]Record, 0, total)
	for _, r := range results {
		out = append(out, r.records...)
	}
	return out, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func (r Row) record() (Record, error) {
	boarding, err := parseCount(r.Boarding)
	if err != nil {
		return Record{}, fmt.Errorf("boarding: %w", err)
	}
	ts, err := parseSeconds(r.ServerTS)
	if err != nil {
		return Record{}, fmt.Errorf("server_ts: %w", err)
	}
	return Record{
		Vehicle:   r.Vehicle,
		TripName:  r.TripFormattedName,
		Boarding:  boarding,
		RouteID:   strings.TrimSpace(r.RouteID),
		DayOfWeek: strings.TrimSpace(r.DayOfWeek),
		ServerTS:  ts,
	}, nil
}

// parseCount accepts integers and integral decimals ("5.0"). Empty is zero.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}

// parseSeconds accepts integer or decimal epoch seconds, flooring fractions.
func parseSeconds(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing timestamp")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return int64(math.Floor(f)), nil
}
