// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ctgov-export/internal/logging"
	"github.com/pdiddy/ctgov-export/internal/registry"
	"github.com/pdiddy/ctgov-export/pkg/types"
)

type scriptedPage struct {
	status int
	body   string
}

// scriptedRegistry answers requests with pages in order and records the
// query string of each request.
func scriptedRegistry(t *testing.T, pages ...scriptedPage) (*registry.Client, func() []url.Values) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []url.Values
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		n := len(seen)
		seen = append(seen, r.URL.Query())
		mu.Unlock()
		if n >= len(pages) {
			t.Errorf("unexpected request #%d", n+1)
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(pages[n].status)
		fmt.Fprint(w, pages[n].body)
	}))
	t.Cleanup(ts.Close)

	client := registry.NewClient(ts.URL, types.HTTPConfig{Timeout: 5 * time.Second}, logging.Discard())
	client.HTTP = ts.Client()
	return client, func() []url.Values {
		mu.Lock()
		defer mu.Unlock()
		return append([]url.Values(nil), seen...)
	}
}

func exportConfig(t *testing.T, name string) types.ExportConfig {
	t.Helper()
	return types.ExportConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		BaseURL:    registry.DefaultBaseURL,
		Output:     filepath.Join(t.TempDir(), name),
		Format:     types.FormatCSV,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func column(t *testing.T, records [][]string, name string) []string {
	t.Helper()
	idx := -1
	for i, h := range records[0] {
		if h == name {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0, "column %q not in header", name)
	out := make([]string, 0, len(records)-1)
	for _, r := range records[1:] {
		out = append(out, r[idx])
	}
	return out
}

func TestRun_SpecificStudy(t *testing.T) {
	client, requests := scriptedRegistry(t, scriptedPage{http.StatusOK, `{
		"studies": [{
			"protocolSection": {
				"identificationModule": {"nctId": "NCT01068860"},
				"conditionsModule": {"conditions": []}
			}
		}]
	}`})
	cfg := exportConfig(t, "clinical_trials_specific_case.csv")

	sum, err := Run(context.Background(), client, registry.ByID("NCT01068860"), cfg, nil, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Summary{Requests: 1, Pages: 1, Rows: 1, Output: cfg.Output}, sum)

	records := readCSV(t, cfg.Output)
	require.Len(t, records, 2)
	assert.Equal(t, types.Header(), records[0])
	assert.Equal(t, []string{"No conditions listed"}, column(t, records, "Conditions"))
	assert.Equal(t, []string{"No interventions listed"}, column(t, records, "Interventions"))
	assert.Equal(t, []string{"https://clinicaltrials.gov/ct2/show/NCT01068860"}, column(t, records, "Study Link"))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "NCT01068860", reqs[0].Get("query.id"))
}

func TestRun_TwoPages(t *testing.T) {
	client, requests := scriptedRegistry(t,
		scriptedPage{http.StatusOK, `{"studies": [
			{"protocolSection": {"identificationModule": {"nctId": "NCT00000001"}}},
			{"protocolSection": {"identificationModule": {"nctId": "NCT00000002"}}}
		], "nextPageToken": "tok2"}`},
		scriptedPage{http.StatusOK, `{"studies": [
			{"protocolSection": {"identificationModule": {"nctId": "NCT00000003"}}}
		]}`},
	)
	cfg := exportConfig(t, "my_data.csv")

	sum, err := Run(context.Background(), client, registry.ByLocationOrSponsor("United States", "Johns Hopkins University"), cfg, nil, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, 2, sum.Requests)

	records := readCSV(t, cfg.Output)
	assert.Equal(t, []string{"NCT00000001", "NCT00000002", "NCT00000003"}, column(t, records, "NCT ID"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.False(t, reqs[0].Has("pageToken"))
	assert.Equal(t, "tok2", reqs[1].Get("pageToken"))
}

func TestRun_TruncatedStillWrites(t *testing.T) {
	pages := []scriptedPage{
		{http.StatusOK, `{"studies": [{"protocolSection": {"identificationModule": {"nctId": "NCT00000001"}}}], "nextPageToken": "tok2"}`},
		{http.StatusServiceUnavailable, `unavailable`},
	}

	t.Run("lenient", func(t *testing.T) {
		client, requests := scriptedRegistry(t, pages...)
		cfg := exportConfig(t, "partial.csv")

		sum, err := Run(context.Background(), client, registry.ByID("x"), cfg, nil, logging.Discard())
		require.NoError(t, err)
		assert.True(t, sum.Truncated)
		assert.Equal(t, 1, sum.Rows)
		assert.Len(t, requests(), 2)
		assert.Equal(t, []string{"NCT00000001"}, column(t, readCSV(t, cfg.Output), "NCT ID"))
	})

	t.Run("strict", func(t *testing.T) {
		client, _ := scriptedRegistry(t, pages...)
		cfg := exportConfig(t, "partial.csv")
		cfg.Strict = true

		_, err := Run(context.Background(), client, registry.ByID("x"), cfg, nil, logging.Discard())
		var statusErr *registry.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Equal(t, 2, statusErr.Page)

		// The partial result is written before the error is reported.
		assert.Equal(t, []string{"NCT00000001"}, column(t, readCSV(t, cfg.Output), "NCT ID"))
	})
}

func TestRun_EmptyQueryWritesNothing(t *testing.T) {
	for name, q := range map[string]*registry.Query{
		"no filters": registry.ByLocationOrSponsor("", ""),
		"blank id":   registry.ByID("  "),
		"nil":        nil,
	} {
		t.Run(name, func(t *testing.T) {
			client, requests := scriptedRegistry(t)
			cfg := exportConfig(t, "none.csv")

			_, err := Run(context.Background(), client, q, cfg, nil, logging.Discard())
			assert.ErrorIs(t, err, registry.ErrEmptyQuery)
			assert.Empty(t, requests())
			_, statErr := os.Stat(cfg.Output)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

// failingFetcher returns a transport-style error after one page.
type failingFetcher struct{ err error }

func (f failingFetcher) Fetch(_ context.Context, _ *registry.Query, fn func(registry.Page) error) (registry.FetchResult, error) {
	if err := fn(registry.Page{Number: 1, Studies: []types.Record{{}}}); err != nil {
		return registry.FetchResult{}, err
	}
	return registry.FetchResult{Requests: 2, Pages: 1, Records: 1}, f.err
}

func TestRun_TransportErrorWritesNothing(t *testing.T) {
	refused := errors.New("dial tcp: connection refused")
	cfg := exportConfig(t, "none.csv")

	sum, err := Run(context.Background(), failingFetcher{err: refused}, registry.ByID("x"), cfg, nil, logging.Discard())
	assert.ErrorIs(t, err, refused)
	assert.Equal(t, 1, sum.Rows)
	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_PreviewAndFormats(t *testing.T) {
	for _, format := range []types.OutputFormat{types.FormatJSON, types.FormatYAML, types.FormatSQLite} {
		t.Run(string(format), func(t *testing.T) {
			client, _ := scriptedRegistry(t, scriptedPage{http.StatusOK,
				`{"studies": [{"protocolSection": {"identificationModule": {"nctId": "NCT01068860"}}}]}`})
			cfg := exportConfig(t, "out."+string(format))
			cfg.Format = format
			cfg.Preview = true

			var preview bytes.Buffer
			_, err := Run(context.Background(), client, registry.ByID("NCT01068860"), cfg, &preview, logging.Discard())
			require.NoError(t, err)
			assert.Contains(t, preview.String(), "NCT01068860")

			info, err := os.Stat(cfg.Output)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}
