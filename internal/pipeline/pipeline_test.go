package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/accident-data-prep/internal/adapter/csvfile"
	"github.com/couchcryptid/accident-data-prep/internal/domain"
	"github.com/couchcryptid/accident-data-prep/internal/observability"
	"github.com/couchcryptid/accident-data-prep/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	table domain.RawTable
	err   error
}

func (m *mockExtractor) Extract(_ context.Context) (domain.RawTable, error) {
	return m.table, m.err
}

type mockTransformer struct {
	accidents []domain.Accident
	err       error
}

func (m *mockTransformer) Transform(_ context.Context, _ domain.RawTable) ([]domain.Accident, error) {
	return m.accidents, m.err
}

type mockLoader struct {
	name   string
	err    error
	loaded []domain.Dataset
}

func (m *mockLoader) Name() string { return m.name }

func (m *mockLoader) Load(_ context.Context, ds domain.Dataset) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, ds)
	return nil
}

func newTestPipeline(e pipeline.Extractor, t pipeline.Transformer, loaders ...pipeline.Loader) *pipeline.Pipeline {
	return pipeline.New(
		e, t, pipeline.NewSummarizer(1000, 42), loaders,
		slog.Default(), observability.NewMetricsForTesting(),
	)
}

func someAccidents() []domain.Accident {
	return []domain.Accident{
		{ID: "A-1", State: "TX", City: "Austin", Severity: 2, WeatherCategory: "clear", Hour: -1, Weekday: -1},
		{ID: "A-2", State: "CA", City: "Fresno", Severity: 3, WeatherCategory: "rain", Hour: -1, Weekday: -1},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ldr := &mockLoader{name: "csv"}
	p := newTestPipeline(&mockExtractor{}, &mockTransformer{accidents: someAccidents()}, ldr)

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, ldr.loaded, 1)
	ds := ldr.loaded[0]
	assert.Equal(t, 2, ds.RowsCleaned)
	assert.Len(t, ds.Aggregates, 6)
	assert.Len(t, ds.Sample, 2)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_NotReadyBeforeRun(t *testing.T) {
	p := newTestPipeline(&mockExtractor{}, &mockTransformer{})
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ldr := &mockLoader{name: "csv"}
	missing := &domain.MissingInputError{Path: "data/raw/US_Accidents_March23.csv"}
	p := newTestPipeline(&mockExtractor{err: missing}, &mockTransformer{}, ldr)

	err := p.Run(context.Background())
	require.Error(t, err)

	var missingErr *domain.MissingInputError
	assert.ErrorAs(t, err, &missingErr)
	assert.Empty(t, ldr.loaded, "no outputs written when extraction fails")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SchemaErrorWritesNothing(t *testing.T) {
	ldr := &mockLoader{name: "csv"}
	p := newTestPipeline(
		&mockExtractor{},
		&mockTransformer{err: &domain.SchemaError{Column: "Severity"}},
		ldr,
	)

	err := p.Run(context.Background())
	require.Error(t, err)

	var schemaErr *domain.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_LoaderError(t *testing.T) {
	good := &mockLoader{name: "csv"}
	bad := &mockLoader{name: "sqlite", err: errors.New("disk full")}
	after := &mockLoader{name: "kafka"}

	p := newTestPipeline(&mockExtractor{}, &mockTransformer{accidents: someAccidents()}, good, bad, after)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")

	assert.Len(t, good.loaded, 1, "loaders before the failure have run")
	assert.Empty(t, after.loaded, "loaders after the failure are skipped")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_MultipleLoadersInOrder(t *testing.T) {
	first := &mockLoader{name: "csv"}
	second := &mockLoader{name: "xlsx"}

	p := newTestPipeline(&mockExtractor{}, &mockTransformer{accidents: someAccidents()}, first, second)

	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, first.loaded, 1)
	assert.Len(t, second.loaded, 1)
}

// TestPipeline_EndToEnd_Deterministic runs the real extractor, transformer,
// and CSV writer twice over the same raw file and verifies byte-identical
// outputs.
func TestPipeline_EndToEnd_Deterministic(t *testing.T) {
	raw := filepath.Join(t.TempDir(), "accidents.csv")
	content := "ID,Severity,Start_Time,End_Time,Start_Lat,Start_Lng,City,County,State,Temperature(F),Visibility(mi),Weather_Condition\n" +
		"A-1,2,2022-06-14 08:15:30,2022-06-14 09:00:30,34.05,-118.24,Los Angeles,Los Angeles,CA,68.0,10.0,Light Rain\n" +
		"A-2,3,2022-06-18 22:00:00,,30.27,-97.74,Austin,Travis,TX,90.5,9.0,Clear\n" +
		"A-3,,2022-06-18 23:30:00,,30.27,-97.74,Austin,Travis,TX,,9.0,Mostly Cloudy\n" +
		"A-4,1,not-a-timestamp,,36.16,-86.78,Nashville,Davidson,TN,75.0,10.0,Thunderstorms and Rain\n"
	require.NoError(t, os.WriteFile(raw, []byte(content), 0o644))

	runOnce := func(outDir string) {
		p := pipeline.New(
			csvfile.NewReader(raw, slog.Default()),
			pipeline.NewTransformer(slog.Default()),
			pipeline.NewSummarizer(2, 42),
			[]pipeline.Loader{csvfile.NewWriter(outDir, slog.Default())},
			slog.Default(),
			observability.NewMetricsForTesting(),
		)
		require.NoError(t, p.Run(context.Background()))
	}

	dirA := t.TempDir()
	dirB := t.TempDir()
	runOnce(dirA)
	runOnce(dirB)

	entries, err := os.ReadDir(dirA)
	require.NoError(t, err)
	require.Len(t, entries, 7, "six aggregates plus the sample")

	for _, e := range entries {
		a, err := os.ReadFile(filepath.Join(dirA, e.Name()))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, e.Name()))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "file %s differs between runs", e.Name())
	}

	// The row with the bad timestamp is excluded from temporal aggregates
	// but still counted by state.
	stateData, err := os.ReadFile(filepath.Join(dirA, "state_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(stateData), "TN,1")

	hourData, err := os.ReadFile(filepath.Join(dirA, "hour_data.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(hourData), "-1")
}
