package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pivolan/eda_dashboard/domain/models"
)

const SEPARATOR = ','

// Options controls how an upload is parsed.
type Options struct {
	// Delimiter for delimited text. 0 picks '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// MaxRows rejects uploads with more data rows; 0 means unlimited.
	MaxRows int
	// MaxUnpackedBytes caps the decompressed size of archives and xlsx
	// workbooks; 0 means unlimited.
	MaxUnpackedBytes int64
}

func DefaultOptions() Options {
	return Options{}
}

// naValues are the cell spellings treated as missing, on top of empty cells.
var naValues = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsMissing reports whether a trimmed cell counts as null.
func IsMissing(cell string) bool {
	return cell == "" || naValues[cell]
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, opt Options) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), opt)
}

// Read parses an upload into a Table. Archive wrappers are removed first,
// .xlsx payloads go through the spreadsheet reader and everything else is
// treated as delimited text. Any malformed input yields a *ParseError.
func Read(r io.Reader, filename string, opt Options) (*models.Table, error) {
	inner, name, err := unpackArchive(r, filename, opt.MaxUnpackedBytes)
	if err != nil {
		return nil, err
	}

	var records [][]string
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		records, err = readXLSX(inner, name, opt.MaxUnpackedBytes)
	} else {
		records, err = readDelimited(inner, name, opt)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(name, records, opt)
}

func readDelimited(r io.Reader, name string, opt Options) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiterFor(name, opt)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, parseErr(name, perr.Line, "malformed delimited text", perr.Err)
			}
			return nil, parseErr(name, 0, "read upload", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func delimiterFor(name string, opt Options) rune {
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	return SEPARATOR
}

func buildTable(name string, records [][]string, opt Options) (*models.Table, error) {
	if len(records) == 0 {
		return nil, parseErr(name, 0, "no columns to parse from file", nil)
	}
	headers := CleanHeaders(records[0])
	rows := records[1:]
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		return nil, parseErr(name, 0, fmt.Sprintf("too many rows: %d > %d", len(rows), opt.MaxRows), nil)
	}

	ncol := len(headers)
	cols := make([]models.Column, ncol)
	for j := range cols {
		cols[j] = models.Column{
			Name:    headers[j],
			Values:  make([]string, len(rows)),
			Missing: make([]bool, len(rows)),
		}
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			// +2: one for the header, one for 1-based lines
			return nil, parseErr(name, i+2, fmt.Sprintf("expected %d fields, saw %d", ncol, len(rec)), nil)
		}
		for j := 0; j < ncol; j++ {
			cell := ""
			if j < len(rec) {
				cell = strings.TrimSpace(rec[j])
			}
			if IsMissing(cell) {
				cols[j].Missing[i] = true
				continue
			}
			cols[j].Values[i] = cell
		}
	}

	for j := range cols {
		inferColumn(&cols[j])
	}
	return &models.Table{Name: name, Rows: len(rows), Columns: cols}, nil
}

// type weights: a column is promoted to the heaviest kind any of its cells needs
const (
	weightNone = iota
	weightInt
	weightFloat
	weightBool
	weightObject
)

func cellWeight(v string) int {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return weightInt
	}
	if isFloat(v) {
		return weightFloat
	}
	if _, ok := parseBool(v); ok {
		return weightBool
	}
	return weightObject
}

// isFloat accepts decimal float syntax, including inf and nan spellings.
// Out-of-range values still count and parse as ±Inf. Hex floats do not.
func isFloat(v string) bool {
	digits := strings.TrimLeft(v, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func promote(saved, current int) int {
	switch {
	case saved == weightNone:
		return current
	case saved == current:
		return saved
	case saved == weightBool || current == weightBool:
		// booleans never mix with anything else
		return weightObject
	case current > saved:
		return current
	}
	return saved
}

func inferColumn(c *models.Column) {
	weight := weightNone
	anyMissing := false
	for i, v := range c.Values {
		if c.Missing[i] {
			anyMissing = true
			continue
		}
		if weight != weightObject {
			weight = promote(weight, cellWeight(v))
		}
	}

	switch weight {
	case weightNone:
		// every cell is missing: an all-NaN float column, unless there are no rows at all
		c.Kind = models.KindFloat
		if len(c.Values) == 0 {
			c.Kind = models.KindObject
		}
	case weightInt:
		c.Kind = models.KindInt
		if anyMissing {
			c.Kind = models.KindFloat
		}
	case weightFloat:
		c.Kind = models.KindFloat
	case weightBool:
		c.Kind = models.KindBool
		if anyMissing {
			c.Kind = models.KindObject
		}
	default:
		c.Kind = models.KindObject
	}

	if c.Kind.IsNumeric() {
		c.Numbers = make([]float64, len(c.Values))
		for i, v := range c.Values {
			if c.Missing[i] {
				c.Numbers[i] = math.NaN()
				continue
			}
			f, _ := strconv.ParseFloat(v, 64)
			c.Numbers[i] = f
		}
	}
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
