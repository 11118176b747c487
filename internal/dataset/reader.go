package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mwiater/senticv/internal/logging"
)

// LoadOptions controls how an input file is decoded.
type LoadOptions struct {
	SkipHeader bool
	// Sheet selects the worksheet of an .xlsx input. Empty picks the first data sheet.
	Sheet string
}

// metadataSheets are worksheet names that never hold the data table.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

// Load decodes the file at path into raw rows, choosing the decoder by extension.
func Load(path string, opts LoadOptions) ([]RawRow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", "":
		return ReadCSV(bytes.NewReader(content), ',', opts.SkipHeader)
	case ".tsv":
		return ReadCSV(bytes.NewReader(content), '\t', opts.SkipHeader)
	case ".xlsx":
		return ReadXLSX(bytes.NewReader(content), opts.Sheet, opts.SkipHeader)
	default:
		return nil, fmt.Errorf("unsupported dataset file type %q", ext)
	}
}

// LoadRecords loads and sanitizes a dataset file in one step.
func LoadRecords(path string, opts LoadOptions, cols Columns) (Dataset, SanitizeStats, error) {
	rows, err := Load(path, opts)
	if err != nil {
		return nil, SanitizeStats{}, err
	}
	ds, stats := Sanitize(rows, cols)
	logging.LogEvent("Loaded %s: %d rows, %d kept, %d dropped", path, stats.Total, stats.Kept, stats.Dropped)
	return ds, stats, nil
}

// ReadCSV decodes delimited text. Rows may have any width; fields are not trimmed.
func ReadCSV(r io.Reader, comma rune, skipHeader bool) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []RawRow
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if first {
			first = false
			if skipHeader {
				continue
			}
		}
		rows = append(rows, RawRow(record))
	}
	return rows, nil
}

// ReadXLSX decodes one worksheet of an Excel workbook.
func ReadXLSX(r io.Reader, sheet string, skipHeader bool) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = dataSheet(f.GetSheetList())
	}
	if sheet == "" {
		return nil, errors.New("xlsx workbook has no sheets")
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	logging.LogDebug("xlsx: read %d rows from sheet %q", len(all), sheet)

	if skipHeader && len(all) > 0 {
		all = all[1:]
	}
	rows := make([]RawRow, 0, len(all))
	for _, row := range all {
		rows = append(rows, RawRow(row))
	}
	return rows, nil
}

func dataSheet(sheets []string) string {
	for _, sheet := range sheets {
		if !metadataSheets[strings.ToLower(sheet)] {
			return sheet
		}
	}
	if len(sheets) > 0 {
		return sheets[len(sheets)-1]
	}
	return ""
}

// WriteCSV writes a dataset as rating,text with a header row.
func WriteCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"rating", "text"}); err != nil {
		return err
	}
	for _, rec := range ds {
		if err := writer.Write([]string{strconv.Itoa(rec.Rating), rec.Text}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
