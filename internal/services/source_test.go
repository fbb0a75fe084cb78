package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSource(t *testing.T, handler http.HandlerFunc) *HTTPSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPSource(config.SourceConfig{
		URL:       srv.URL + "/produtos",
		Timeout:   5 * time.Second,
		UserAgent: "test",
	}, testLogger())
}

func TestHTTPSource_Fetch(t *testing.T) {
	want := toAPIRecords(sampleSales())

	tests := []struct {
		name   string
		query  Query
		regiao string
		ano    string
	}{
		{"no restriction", Query{}, "", ""},
		{"all regions label", Query{Region: AllRegions, Year: 2022}, "", "2022"},
		{"region is lowercased", Query{Region: "Centro-Oeste"}, "centro-oeste", ""},
		{"region and year", Query{Region: "Sudeste", Year: 2021}, "sudeste", "2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/produtos", r.URL.Path)
				assert.Equal(t, tt.regiao, r.URL.Query().Get("regiao"))
				assert.Equal(t, tt.ano, r.URL.Query().Get("ano"))
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(want)
			})

			got, err := src.Fetch(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestHTTPSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"unreadable body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, tt.handler)

			_, err := src.Fetch(context.Background(), Query{})
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeSourceUnavailable), "got %v", err)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	src := NewHTTPSource(config.SourceConfig{URL: url, Timeout: time.Second}, testLogger())
	_, err := src.Fetch(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSourceUnavailable))
}

func TestHTTPSource_SharesInFlightFetch(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`[]`))
	})

	done := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := src.Fetch(context.Background(), Query{Region: "Sul"})
			done <- err
		}()
	}

	// Give both callers time to join the same flight before answering.
	time.Sleep(100 * time.Millisecond)
	close(release)
	for range 2 {
		require.NoError(t, <-done)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestHTTPSource_SharedFetchSurvivesCancelledCaller(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`[{"Produto":"Cama box","Data da Compra":"20/01/2020"}]`))
	})

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := src.Fetch(first, Query{Region: "Sul"})
		firstDone <- err
	}()

	// Let the first caller start the request before the second joins it.
	time.Sleep(50 * time.Millisecond)
	type result struct {
		n   int
		err error
	}
	secondDone := make(chan result, 1)
	go func() {
		records, err := src.Fetch(context.Background(), Query{Region: "Sul"})
		secondDone <- result{len(records), err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := <-firstDone
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSourceUnavailable))

	close(release)
	res := <-secondDone
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.n)
	assert.Equal(t, int64(1), hits.Load())
}

func TestParseRecords(t *testing.T) {
	raw := toAPIRecords(sampleSales())

	sales, err := ParseRecords(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleSales(), sales)

	raw[2].PurchaseDate = "2020-03-02"
	_, err = ParseRecords(raw)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMalformedRecord))
}
