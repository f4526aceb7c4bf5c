package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"golang.org/x/exp/slog"
)

func get(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStatusServer(t *testing.T) {
	progress := buffered.NewLogProgress(100)
	server := NewStatusServer(progress)
	router := server.Router()

	rec := get(t, router, "/distance?vertex=7")
	require.Equal(t, http.StatusNotFound, rec.Code)

	table := buffered.NewDistanceTable()
	table.Merge([]buffered.DistanceRecord{{Vertex: 3, Distance: 2.5}})
	server.SetTable(table, func(vertex int64) (int32, bool) {
		if vertex == 7 {
			return 3, true
		}
		return 0, false
	})
	progress.OnQuery(1, 4, buffered.QueryResult{ID: 1, Outcome: buffered.VALIDATED})

	rec = get(t, router, "/progress")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ProgressResponse{Done: 1, Total: 4, Percent: 25, Vertices: 1}, resp)

	rec = get(t, router, "/distance?vertex=7")
	require.Equal(t, http.StatusOK, rec.Code)
	var dist DistanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dist))
	require.Equal(t, DistanceResponse{Vertex: 7, Distance: 2.5}, dist)

	require.Equal(t, http.StatusBadRequest, get(t, router, "/distance?vertex=8").Code)
	require.Equal(t, http.StatusBadRequest, get(t, router, "/distance?vertex=abc").Code)

	rec = get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "buffered_table_vertices")
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Debug("hidden")
	logger.With("run", 1).Info("query done", "id", 5, "outcome", "not validated")

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.NotContains(t, line, "hidden")
	require.Contains(t, line, `INFO query done run=1 id=5 outcome="not validated"`)

	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)
}
