package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"qrsafe/internal/adapters/memory"
	"qrsafe/internal/domain"
	"qrsafe/internal/metrics"
	"qrsafe/internal/ports"
	"qrsafe/internal/ports/mocks"
	"qrsafe/internal/seed"
	"qrsafe/internal/services/curated"
	"qrsafe/internal/services/intel"
	"qrsafe/internal/services/verifier"
)

type fixture struct {
	server *httptest.Server
	asker  *mocks.MockAsker
}

func newFixture(t *testing.T, repo ports.CuratedRepository) fixture {
	t.Helper()
	return newFixtureWithOrigins(t, repo, nil)
}

func newFixtureWithOrigins(t *testing.T, repo ports.CuratedRepository, origins []string) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	asker := mocks.NewMockAsker(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	intelSvc := intel.New(asker, nil, intel.Config{SearchModel: "search", AnalysisModel: "analysis"}, logger, m)
	svc := verifier.New(curated.New(repo, logger), intelSvc, 5*time.Second, logger, m)

	srv := New(svc, repo, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), origins, logger)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return fixture{server: ts, asker: asker}
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	_, err := seed.Load(context.Background(), store, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return store
}

func post(t *testing.T, ts *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCheckURLInDB(t *testing.T) {
	f := newFixture(t, seededStore(t))

	t.Run("malicious", func(t *testing.T) {
		status, body := post(t, f.server, "/api/check-url-in-db", `{"url":"http://evil.site/download/installer.exe?x=1"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["verified"])
		assert.Equal(t, true, body["is_malicious"])
		assert.Equal(t, string(domain.SourceThreatDB), body["source"])
		assert.Equal(t, "This URL has been reported as malicious.", body["details"])
	})

	t.Run("verified", func(t *testing.T) {
		status, body := post(t, f.server, "/api/check-url-in-db", `{"url":"https://www.github.com/org/repo"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["verified"])
		assert.Equal(t, string(domain.SourceVerifiedDB), body["source"])
		assert.Equal(t, "2025-06-01", body["verification_date"])
		assert.NotEmpty(t, body["company_name"])
	})

	t.Run("unknown", func(t *testing.T) {
		status, body := post(t, f.server, "/api/check-url-in-db", `{"url":"https://never-seen.example/"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["verified"])
		assert.Equal(t, true, body["unknown"])
		assert.Equal(t, "This URL is not from a verified partner.", body["details"])
	})
}

func TestValidationErrors(t *testing.T) {
	f := newFixture(t, seededStore(t))

	for _, path := range []string{"/api/check-url-in-db", "/api/check-url-with-openai", "/api/check-url"} {
		for name, body := range map[string]string{
			"empty url":  `{"url":""}`,
			"blank url":  `{"url":"   "}`,
			"no field":   `{}`,
			"bad json":   `{"url":`,
			"empty body": ``,
		} {
			t.Run(path+" "+name, func(t *testing.T) {
				status, out := post(t, f.server, path, body)
				assert.Equal(t, http.StatusBadRequest, status)
				assert.Equal(t, "URL is required", out["detail"])
			})
		}
	}
}

func TestCheckURLWithOpenAI(t *testing.T) {
	f := newFixture(t, seededStore(t))
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("No reports found.", nil)
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("SAFETY: safe\nREASON: Established site.", nil)

	status, body := post(t, f.server, "/api/check-url-with-openai", `{"url":"https://example.org"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["safe"])
	assert.Equal(t, domain.IntelligenceSource, body["source"])
	assert.Equal(t, "Established site.", body["details"])
	assert.Equal(t, "No reports found.", body["raw_results"])
}

func TestCheckURLWithOpenAIDegrades(t *testing.T) {
	f := newFixture(t, seededStore(t))
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("", errors.New("upstream unavailable"))

	status, body := post(t, f.server, "/api/check-url-with-openai", `{"url":"https://example.org"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["safe"])
	assert.Contains(t, body, "safe")
	assert.NotEmpty(t, body["error"])
}

func TestCheckURLCombined(t *testing.T) {
	f := newFixture(t, seededStore(t))
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("Reported as a gift card scam.", nil)
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("SAFETY: dangerous\nREASON: Gift card scam.", nil)

	status, body := post(t, f.server, "/api/check-url", `{"url":"http://free-gift-now.click/claim"}`)
	require.Equal(t, http.StatusOK, status)

	target := body["target"].(map[string]any)
	assert.Equal(t, "http://free-gift-now.click/claim", target["url"])
	assert.Equal(t, "free-gift-now.click/claim", target["normalized_url"])

	dbCheck := body["db_check"].(map[string]any)
	assert.Equal(t, true, dbCheck["is_malicious"])

	webCheck := body["web_check"].(map[string]any)
	assert.Equal(t, false, webCheck["safe"])
	assert.Equal(t, "Gift card scam.", webCheck["details"])
}

func TestCheckURLStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCuratedRepository(ctrl)
	repo.EXPECT().FindMalicious(gomock.Any(), gomock.Any()).Return(domain.MaliciousEntry{}, false, errors.New("connection refused")).AnyTimes()

	f := newFixture(t, repo)
	f.asker.EXPECT().Ask(gomock.Any(), gomock.Any()).Return("", context.Canceled).AnyTimes()

	for _, path := range []string{"/api/check-url-in-db", "/api/check-url"} {
		status, body := post(t, f.server, path, `{"url":"example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, status, path)
		assert.Equal(t, "Internal server error", body["detail"], path)
	}
}

func TestHealthz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f := newFixture(t, memory.New())
		resp, err := http.Get(f.server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("store down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCuratedRepository(ctrl)
		repo.EXPECT().Ping(gomock.Any()).Return(errors.New("down"))

		f := newFixture(t, repo)
		resp, err := http.Get(f.server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, seededStore(t))
	_, _ = post(t, f.server, "/api/check-url-in-db", `{"url":"evil.site"}`)

	resp, err := http.Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "qrsafe_")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, memory.New())
	resp, err := http.Get(f.server.URL + "/api/check-url")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func preflight(t *testing.T, ts *httptest.Server, path, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodOptions, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCORS(t *testing.T) {
	t.Run("preflight allowed for any origin by default", func(t *testing.T) {
		f := newFixture(t, memory.New())
		for _, path := range []string{"/api/check-url-in-db", "/api/check-url-with-openai", "/api/check-url"} {
			resp := preflight(t, f.server, path, "https://scanner.example")
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
			assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost, path)
		}
	})

	t.Run("actual request carries allow origin", func(t *testing.T) {
		f := newFixture(t, seededStore(t))
		req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/check-url-in-db", strings.NewReader(`{"url":"evil.site"}`))
		require.NoError(t, err)
		req.Header.Set("Origin", "https://scanner.example")
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("configured origins are enforced", func(t *testing.T) {
		f := newFixtureWithOrigins(t, memory.New(), []string{"https://app.qrsafe.example"})

		resp := preflight(t, f.server, "/api/check-url", "https://app.qrsafe.example")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://app.qrsafe.example", resp.Header.Get("Access-Control-Allow-Origin"))

		resp = preflight(t, f.server, "/api/check-url", "https://elsewhere.example")
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
