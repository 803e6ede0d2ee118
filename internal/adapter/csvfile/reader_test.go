package csvfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/accident-data-prep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawHeader = "ID,Severity,Start_Time,End_Time,Start_Lat,Start_Lng,City,County,State,Temperature(F),Visibility(mi),Weather_Condition"

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accidents.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_Extract(t *testing.T) {
	content := rawHeader + "\n" +
		"A-1,2,2022-06-14 08:15:30,2022-06-14 09:00:30,34.05,-118.24,Los Angeles,Los Angeles,CA,68.0,10.0,Light Rain\n" +
		"A-2,3,2022-06-18 22:00:00,,30.27,-97.74,Austin,Travis,TX,90.5,9.0,Clear\n"

	r := NewReader(writeTempCSV(t, content), slog.Default())
	table, err := r.Extract(context.Background())
	require.NoError(t, err)

	assert.Len(t, table.Header, 12)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A-1", table.Field(table.Rows[0], domain.ColID))
	assert.Equal(t, "TX", table.Field(table.Rows[1], domain.ColState))
}

func TestReader_Extract_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "nope.csv"), slog.Default())
	_, err := r.Extract(context.Background())
	require.Error(t, err)

	var missing *domain.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Error(), "kaggle.com", "error should tell the operator where to get the dataset")
}

func TestReader_Extract_HeaderOnly(t *testing.T) {
	r := NewReader(writeTempCSV(t, rawHeader+"\n"), slog.Default())
	table, err := r.Extract(context.Background())
	require.NoError(t, err)

	assert.Len(t, table.Header, 12)
	assert.Empty(t, table.Rows)
}

func TestReader_Extract_EmptyFile(t *testing.T) {
	r := NewReader(writeTempCSV(t, ""), slog.Default())
	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReader_Extract_MalformedCSV(t *testing.T) {
	// Second data row has a bare quote, which encoding/csv rejects.
	content := rawHeader + "\n" +
		"A-1,2,2022-06-14 08:15:30,,34.05,-118.24,Los Angeles,Los Angeles,CA,68.0,10.0,Clear\n" +
		`A-2,"broken` + "\n"

	r := NewReader(writeTempCSV(t, content), slog.Default())
	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read raw dataset")
}

func TestReader_Extract_CancelledContext(t *testing.T) {
	content := rawHeader + "\n" +
		"A-1,2,2022-06-14 08:15:30,,34.05,-118.24,Los Angeles,Los Angeles,CA,68.0,10.0,Clear\n"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(writeTempCSV(t, content), slog.Default())
	_, err := r.Extract(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
