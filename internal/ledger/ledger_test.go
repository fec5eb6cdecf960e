// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rubric-report/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(types.LedgerConfig{Path: filepath.Join(dir, "db", "ledger.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func record(student string, at time.Time) types.ReportRecord {
	return types.ReportRecord{
		Student:      student,
		Title:        "Light Pollution",
		OverallGrade: "4/6",
		Sections: []types.SectionGrade{
			{Section: types.SectionEvidence, Grade: "3/4", QuoteCount: 2},
			{Section: types.SectionThesis, Grade: "1/1", QuoteCount: 0},
		},
		PDFPath:     "in/" + student + ".pdf",
		ReportPath:  "out/" + student + "_report.docx",
		ProcessedAt: at,
	}
}

var base = time.Date(2026, time.February, 17, 9, 0, 0, 0, time.UTC)

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(types.LedgerConfig{})
	assert.ErrorContains(t, err, "no database path")
}

func TestRecordAndList(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, record("Taylor", base))
	require.NoError(t, err)
	assert.Positive(t, id)

	later := record("Sam", base.Add(time.Hour))
	later.DOCXPath = "ws/Sam.docx"
	_, err = store.Record(ctx, later)
	require.NoError(t, err)

	got, err := store.List(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Sam", got[0].Student, "newest first")
	assert.Equal(t, "ws/Sam.docx", got[0].DOCXPath)
	assert.Equal(t, base.Add(time.Hour), got[0].ProcessedAt)

	want := record("Taylor", base)
	want.ID = id
	assert.Equal(t, want, got[1])
}

func TestList_Filters(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for i, name := range []string{"Taylor", "Sam", "taylor", "Ana"} {
		_, err := store.Record(ctx, record(name, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all", QueryOptions{}, []string{"Ana", "taylor", "Sam", "Taylor"}},
		{"student ignores case", QueryOptions{Student: "TAYLOR"}, []string{"taylor", "Taylor"}},
		{"limit", QueryOptions{Limit: 2}, []string{"Ana", "taylor"}},
		{"no match", QueryOptions{Student: "Lee"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.opts)
			require.NoError(t, err)
			var names []string
			for _, r := range got {
				names = append(names, r.Student)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestList_DefaultLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(types.LedgerConfig{Path: filepath.Join(dir, "ledger.db"), MaxResults: 3})
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		_, err := store.Record(context.Background(), record("Sam", base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}
	got, err := store.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecord_StampsTime(t *testing.T) {
	store, _ := testStore(t)
	rec := record("Sam", time.Time{})

	before := time.Now().UTC()
	_, err := store.Record(context.Background(), rec)
	require.NoError(t, err)

	got, err := store.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].ProcessedAt.Before(before.Truncate(time.Second)))
}

func TestRecord_Concurrent(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = store.Record(ctx, record("Sam", base.Add(time.Duration(i)*time.Second)))
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := store.List(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestExport(t *testing.T) {
	store, dir := testStore(t)
	ctx := context.Background()
	_, err := store.Record(ctx, record("Taylor", base))
	require.NoError(t, err)
	_, err = store.Record(ctx, record("Sam", base.Add(time.Minute)))
	require.NoError(t, err)

	yamlPath := filepath.Join(dir, "exports", "history.yaml")
	require.NoError(t, store.Export(ctx, yamlPath, QueryOptions{Student: "taylor", Limit: 1}))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.ReportRecord
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "Taylor", fromYAML[0].Student)
	assert.Equal(t, []types.SectionGrade{
		{Section: types.SectionEvidence, Grade: "3/4", QuoteCount: 2},
		{Section: types.SectionThesis, Grade: "1/1", QuoteCount: 0},
	}, fromYAML[0].Sections)

	jsonPath := filepath.Join(dir, "history.JSON")
	require.NoError(t, store.Export(ctx, jsonPath, QueryOptions{}))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.ReportRecord
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "Sam", fromJSON[0].Student)
	assert.True(t, base.Add(time.Minute).Equal(fromJSON[0].ProcessedAt))
}

func TestExport_Empty(t *testing.T) {
	store, dir := testStore(t)
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, store.ExportJSON(context.Background(), path, QueryOptions{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
