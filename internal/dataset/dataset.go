// Package dataset holds the labeled-text data model and the sanitizer that turns
// raw tabular rows into a clean (rating, text) dataset.
package dataset

import "strconv"

// RawRow is one decoded input row. Only the configured rating and text columns are read.
type RawRow []string

// Record is a sanitized (rating, text) pair. Rating is always -1, 0 or 1.
type Record struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Dataset is an ordered sequence of records. Order is kept so folds are reproducible.
type Dataset []Record

// Columns are the 0-based offsets of the rating and text fields within a RawRow.
type Columns struct {
	Rating int
	Text   int
}

// DefaultColumns matches the <Stud|Rating|Link|Comment> export layout.
var DefaultColumns = Columns{Rating: 1, Text: 3}

// SanitizeStats counts what the sanitizer kept and dropped.
type SanitizeStats struct {
	Total   int `json:"total"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// Sanitize keeps the rows whose rating field is exactly "1", "-1" or "0" and
// converts them to records. Every other row is dropped without error. The input
// is not modified and the output preserves input order.
func Sanitize(rows []RawRow, cols Columns) (Dataset, SanitizeStats) {
	stats := SanitizeStats{Total: len(rows)}
	out := make(Dataset, 0, len(rows))
	for _, row := range rows {
		rec, ok := sanitizeRow(row, cols)
		if !ok {
			stats.Dropped++
			continue
		}
		out = append(out, rec)
	}
	stats.Kept = len(out)
	return out, stats
}

func sanitizeRow(row RawRow, cols Columns) (Record, bool) {
	if cols.Rating < 0 || cols.Text < 0 || cols.Rating >= len(row) || cols.Text >= len(row) {
		return Record{}, false
	}
	raw := row[cols.Rating]
	if !ValidRating(raw) {
		return Record{}, false
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, false
	}
	return Record{Rating: rating, Text: row[cols.Text]}, true
}

// ValidRating reports whether a raw rating field is one of the accepted literals.
// The comparison is on the exact string: " 1", "+1" and "1.0" are all rejected.
func ValidRating(raw string) bool {
	switch raw {
	case "1", "-1", "0":
		return true
	default:
		return false
	}
}

// Texts returns the texts at the given indices, in index order.
func (d Dataset) Texts(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, d[i].Text)
	}
	return out
}

// Ratings returns the ratings at the given indices, aligned 1:1 with Texts(indices).
func (d Dataset) Ratings(indices []int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		out = append(out, d[i].Rating)
	}
	return out
}
