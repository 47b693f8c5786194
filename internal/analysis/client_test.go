package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() model.ProjectData {
	var p model.ProjectData
	p.Overview.ProjectName = "Acme"
	p.Overview.Category = "fintech"
	p.Financials.FundingNeeded = "$500K"
	return p
}

func newTestClient(url string, retries int) *Client {
	return NewClient(url, 2*time.Second, WithMaxRetries(retries), WithBackoff(time.Millisecond))
}

func TestAnalyzeSendsProjectData(t *testing.T) {
	var got map[string]map[string]string
	var header http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AnalyzePath, r.URL.Path)
		header = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"analogs": [
				{"name": "Stripe", "similarity": 87.5, "strengths": ["api"], "weaknesses": null},
				{"name": "Square", "similarity": 40}
			],
			"recommendations": ["Talk to banks"],
			"analysisTimestamp": "2026-01-01T00:00:00Z",
			"totalAnalogs": 2
		}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL, 0).Analyze(context.Background(), sampleProject())
	require.NoError(t, err)

	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))

	require.Len(t, got, 5)
	assert.Equal(t, "Acme", got["overview"]["projectName"])
	assert.Equal(t, "", got["overview"]["description"])
	assert.Equal(t, "$500K", got["financials"]["fundingNeeded"])
	assert.Contains(t, got, "businessModel")

	require.Len(t, res.Analogs, 2)
	assert.Equal(t, "Stripe", res.Analogs[0].Name)
	assert.Equal(t, 87.5, res.Analogs[0].Similarity)
	assert.Equal(t, []string{"api"}, res.Analogs[0].Strengths)
	assert.Nil(t, res.Analogs[0].Weaknesses)
	assert.Equal(t, "Square", res.Analogs[1].Name)
	assert.Equal(t, []string{"Talk to banks"}, res.Recommendations)
	assert.Equal(t, 2, res.TotalAnalogs)
}

func TestAnalyzeEmptyAnalogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"analogs": [], "totalAnalogs": 0}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL, 0).Analyze(context.Background(), sampleProject())
	require.NoError(t, err)
	assert.NotNil(t, res.Analogs)
	assert.Empty(t, res.Analogs)
	assert.Empty(t, res.Recommendations)
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>oops</html>`,
		"missing analogs": `{"recommendations": []}`,
		"analogs object":  `{"analogs": {"name": "x"}}`,
		"bad similarity":  `{"analogs": [{"name": "x", "similarity": "high"}]}`,
		"null body":       `null`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, 2).Analyze(context.Background(), sampleProject())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), err.Error())
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestAnalyzeNullableAnalogFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"analogs": [
				{"name": "Stripe", "description": null, "funding": null, "marketPosition": null},
				{"name": "Square", "similarity": null, "stage": "growth"}
			],
			"analysisTimestamp": null,
			"totalAnalogs": null
		}`))
	}))
	defer server.Close()

	res, err := newTestClient(server.URL, 0).Analyze(context.Background(), sampleProject())
	require.NoError(t, err)
	require.Len(t, res.Analogs, 2)
	assert.Equal(t, "Stripe", res.Analogs[0].Name)
	assert.Empty(t, res.Analogs[0].Description)
	assert.Zero(t, res.Analogs[0].Similarity)
	assert.Zero(t, res.Analogs[1].Similarity)
	assert.Equal(t, "growth", res.Analogs[1].Stage)
	assert.Zero(t, res.TotalAnalogs)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"analogs": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 1).Analyze(context.Background(), sampleProject())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).Analyze(context.Background(), sampleProject())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "down", statusErr.Body)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).Analyze(context.Background(), sampleProject())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.False(t, Retryable(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, 1).Analyze(context.Background(), sampleProject())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL, 5).Analyze(ctx, sampleProject())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestMicroGrants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MicroGrantsPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"grants": [{"name": "Seed Fund", "why": "early fintech"}, {"name": "EU Grant"}]}`))
	}))
	defer server.Close()

	grants, err := newTestClient(server.URL, 0).MicroGrants(context.Background(), sampleProject())
	require.NoError(t, err)
	assert.Equal(t, []model.GrantSuggestion{
		{Name: "Seed Fund", Why: "early fintech"},
		{Name: "EU Grant"},
	}, grants)
}

func TestMicroGrantsNullList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"grants": null}`))
	}))
	defer server.Close()

	grants, err := newTestClient(server.URL, 0).MicroGrants(context.Background(), sampleProject())
	require.NoError(t, err)
	assert.NotNil(t, grants)
	assert.Empty(t, grants)
}

func TestMicroGrantsMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"suggestions": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).MicroGrants(context.Background(), sampleProject())
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestStatusErrorUnwrap(t *testing.T) {
	assert.True(t, errors.Is(&StatusError{Code: 500}, ErrTransport))
	assert.True(t, errors.Is(&StatusError{Code: 404}, ErrRejected))
	assert.Equal(t, "/analyze: status 404", (&StatusError{Endpoint: "/analyze", Code: 404}).Error())
}
