// Package dataset reads evaluation datasets: named columns of ground truth,
// predictions and optional weights stored as CSV, JSON or YAML, optionally
// gzip-compressed.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/reportrabbit/pkg/log"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnknownFormat is returned for a file extension Load cannot decode.
	ErrUnknownFormat = errors.New("unknown dataset format")

	// ErrMissingColumn is returned by Frame.Column for an absent column.
	ErrMissingColumn = errors.New("missing column")
)

// Frame is a set of equal-length named columns. Cells are kept as decoded
// (strings for CSV, numbers or strings for JSON and YAML); numeric coercion
// happens when a column is handed to a metric.
type Frame struct {
	Path    string
	headers []string
	columns map[string][]interface{}
	rows    int
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Headers returns the column names in file order (sorted for JSON and YAML).
func (f *Frame) Headers() []string {
	return append([]string{}, f.headers...)
}

// Column returns the cells of the named column.
func (f *Frame) Column(name string) ([]interface{}, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, errors.Wrapf(ErrMissingColumn, "%s: column %q not found (have %s)",
			f.Path, name, strings.Join(f.headers, ", "))
	}
	return col, nil
}

// DetectFormat infers the format from a file name, ignoring a trailing .gz.
// It reports whether the file is gzip-compressed.
func DetectFormat(path string) (Format, bool, error) {
	name := strings.ToLower(filepath.Base(path))
	gz := strings.HasSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".gz")

	switch filepath.Ext(name) {
	case ".csv":
		return FormatCSV, gz, nil
	case ".json":
		return FormatJSON, gz, nil
	case ".yaml", ".yml":
		return FormatYAML, gz, nil
	default:
		return "", gz, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}
}

// Load reads the dataset at path, choosing the decoder by extension.
func Load(path string) (*Frame, error) {
	start := time.Now()

	format, gz, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer file.Close() //nolint:errcheck

	var r io.Reader = file
	if gz {
		zr, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: gzip %s", path)
		}
		defer zr.Close() //nolint:errcheck
		r = zr
	}

	frame, err := Decode(r, format)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: %s", path)
	}
	frame.Path = path

	log.GetLoggerWithName("dataset").Debug("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.FileKey, path,
		log.SamplesKey, frame.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return frame, nil
}

// Decode reads a dataset in the given format from r.
func Decode(r io.Reader, format Format) (*Frame, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r)
	case FormatJSON:
		var raw map[string][]interface{}
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "json: parse")
		}
		return fromColumns(raw)
	case FormatYAML:
		var raw map[string][]interface{}
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "yaml: parse")
		}
		return fromColumns(raw)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// decodeCSV treats the first record as the header row.
func decodeCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv: parse")
	}
	if len(records) == 0 {
		return nil, errors.New("csv: empty (no header row)")
	}

	headers := records[0]
	columns := make(map[string][]interface{}, len(headers))
	for _, h := range headers {
		if _, dup := columns[h]; dup {
			return nil, errors.Newf("csv: duplicate column %q", h)
		}
		columns[h] = make([]interface{}, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		for j, h := range headers {
			columns[h] = append(columns[h], record[j])
		}
	}

	return &Frame{headers: headers, columns: columns, rows: len(records) - 1}, nil
}

// fromColumns builds a frame from a column-oriented document.
func fromColumns(raw map[string][]interface{}) (*Frame, error) {
	if len(raw) == 0 {
		return nil, errors.New("no columns")
	}

	headers := make([]string, 0, len(raw))
	for h := range raw {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	rows := len(raw[headers[0]])
	for _, h := range headers[1:] {
		if n := len(raw[h]); n != rows {
			return nil, errors.Newf("column %q has %d rows, expected %d (from %q)", h, n, rows, headers[0])
		}
	}

	columns := make(map[string][]interface{}, len(raw))
	for h, col := range raw {
		if col == nil {
			col = []interface{}{}
		}
		columns[h] = col
	}
	return &Frame{headers: headers, columns: columns, rows: rows}, nil
}
