package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Stud,Rating,Link,Comment
1,1,http://x,"Great, really great"
2,-1,http://y,bad
3,n/a,http://z,skipped
4,0
5,0,http://w,"multi
line"
`

func TestReadCSVSkipsHeaderAndAllowsRaggedRows(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV), ',', true)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, RawRow{"1", "1", "http://x", "Great, really great"}, rows[0])
	assert.Equal(t, RawRow{"4", "0"}, rows[3])
	assert.Equal(t, "multi\nline", rows[4][3])
}

func TestReadCSVKeepsHeaderWhenAsked(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a,b\nc,d\n"), ',', false)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoadRecordsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, stats, err := LoadRecords(path, LoadOptions{SkipHeader: true}, DefaultColumns)
	require.NoError(t, err)
	assert.Equal(t, Dataset{
		{Rating: 1, Text: "Great, really great"},
		{Rating: -1, Text: "bad"},
		{Rating: 0, Text: "multi\nline"},
	}, ds)
	assert.Equal(t, 2, stats.Dropped)
}

func TestLoadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.tsv")
	require.NoError(t, os.WriteFile(path, []byte("h1\th2\nx\t1\ty\tfine\n"), 0o644))

	rows, err := Load(path, LoadOptions{SkipHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []RawRow{{"x", "1", "y", "fine"}}, rows)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path, LoadOptions{})
	assert.Error(t, err)
}

func TestReadXLSXSkipsMetadataSheets(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "About"))
	_, err := f.NewSheet("Ratings")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("About", "A1", &[]any{"exported by", "survey tool"}))
	require.NoError(t, f.SetSheetRow("Ratings", "A1", &[]any{"Stud", "Rating", "Link", "Comment"}))
	require.NoError(t, f.SetSheetRow("Ratings", "A2", &[]any{"1", "1", "http://x", "loved it"}))
	require.NoError(t, f.SetSheetRow("Ratings", "A3", &[]any{"2", "-1", "http://y", "hated it"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "", true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ds, _ := Sanitize(rows, DefaultColumns)
	assert.Equal(t, Dataset{{1, "loved it"}, {-1, "hated it"}}, ds)
}

func TestWriteCSVRoundTripsThroughSanitizer(t *testing.T) {
	ds := Dataset{{-1, "bad, very"}, {1, "good"}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	rows, err := ReadCSV(&buf, ',', true)
	require.NoError(t, err)
	got, _ := Sanitize(rows, Columns{Rating: 0, Text: 1})
	assert.Equal(t, ds, got)
}
