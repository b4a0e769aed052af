package csvfile

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/sst-trends/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dateCol = "COLLECTION_DATE"
	tempCol = "Sea Surface Temp Ave C"
)

const sampleCSV = `COLLECTION_DATE,Station,Sea Surface Temp Ave C,Bottom Temp Ave C
1949-06-01,Scripps Pier,10,9.1
1950-01-01,Scripps Pier,999,
1950-11-01,Scripps Pier,14,12.7
8/22/1916,Scripps Pier,n/a,
`

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(sampleCSV), dateCol, tempCol)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, domain.RawRecord{
		Row:  0,
		Date: "1949-06-01",
		Temp: "10",
		Fields: map[string]string{
			"Station":           "Scripps Pier",
			"Bottom Temp Ave C": "9.1",
		},
	}, records[0])

	assert.Equal(t, 3, records[3].Row)
	assert.Equal(t, "8/22/1916", records[3].Date)
	assert.Equal(t, "n/a", records[3].Temp)
	assert.NotContains(t, records[3].Fields, dateCol)
	assert.NotContains(t, records[3].Fields, tempCol)
}

func TestReadRecords_StripsBOM(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("\ufeff"+sampleCSV), dateCol, tempCol)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "1949-06-01", records[0].Date)
}

func TestReadRecords_KeepsLeadingZerosAsText(t *testing.T) {
	data := "COLLECTION_DATE,Sea Surface Temp Ave C,Code\n1950-11-01,014.50,007\n"
	records, err := ReadRecords(strings.NewReader(data), dateCol, tempCol)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "014.50", records[0].Temp)
	assert.Equal(t, "007", records[0].Fields["Code"])
}

func TestReadRecords_MissingColumn(t *testing.T) {
	data := "COLLECTION_DATE,Station\n1950-11-01,Scripps Pier\n"
	_, err := ReadRecords(strings.NewReader(data), dateCol, tempCol)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), tempCol)
}

func TestReader_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sst.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	r := NewReader(path, dateCol, tempCol, slog.Default())
	records, err := r.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestReader_Extract_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "absent.csv"), dateCol, tempCol, slog.Default())
	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "open source table")
}

func TestReader_Extract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader("unused.csv", dateCol, tempCol, slog.Default())
	_, err := r.Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
