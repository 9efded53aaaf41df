package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestServer builds a server whose proxy routes point at the given
// upstream handler.
func newTestServer(t *testing.T, upstream http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	cfg := &Config{
		Addr:         ":0",
		AppURL:       "https://swap.example.test",
		ZeroExURL:    up.URL,
		ZeroExAPIKey: "test-key",
		FrameName:    "Monad Swap",
		WebhookURL:   "https://swap.example.test/api/webhook",
	}
	log := testLogger()
	return New(cfg, NewHandlers(cfg, log), log), up
}

func doReq(s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

// ----------------------------------------------------------------------------
// Proxy routes

func TestPriceProxyInjectsAPIKey(t *testing.T) {
	var gotKey, gotVersion string
	var gotQuery url.Values
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("0x-api-key")
		gotVersion = r.Header.Get("0x-version")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"buyAmount":"25000000"}`)) //nolint:errcheck
	})

	rec := doReq(s, http.MethodGet, "/api/price?chainId=10143&sellToken=0xaaa&buyToken=0xbbb&sellAmount=100&taker=0xccc", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "v2", gotVersion)
	assert.Equal(t, "10143", gotQuery.Get("chainId"))
	assert.Equal(t, "100", gotQuery.Get("sellAmount"))
	assert.JSONEq(t, `{"buyAmount":"25000000"}`, rec.Body.String())
}

func TestProxyDropsUnknownParams(t *testing.T) {
	var gotQuery url.Values
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`)) //nolint:errcheck
	})

	doReq(s, http.MethodGet, "/api/quote?sellToken=0xaaa&buyToken=0xbbb&sellAmount=1&apiKey=steal&x=y", nil)

	assert.Empty(t, gotQuery.Get("apiKey"))
	assert.Empty(t, gotQuery.Get("x"))
	assert.Equal(t, "0xaaa", gotQuery.Get("sellToken"))
}

func TestProxyValidatesQuery(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})

	rec := doReq(s, http.MethodGet, "/api/price?sellToken=0xaaa&buyToken=0xbbb", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(s, http.MethodGet, "/api/price?sellAmount=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProxyRelaysUpstreamStatus(t *testing.T) {
	s, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"validationErrors":[{"field":"sellAmount","code":"INSUFFICIENT_ASSET_LIQUIDITY","reason":"no routes"}]}`)) //nolint:errcheck
	})

	rec := doReq(s, http.MethodGet, "/api/price?sellToken=0xaaa&buyToken=0xbbb&sellAmount=1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_ASSET_LIQUIDITY")
}

func TestProxyUpstreamDown(t *testing.T) {
	s, up := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	up.Close()

	rec := doReq(s, http.MethodGet, "/api/price?sellToken=0xaaa&buyToken=0xbbb&sellAmount=1", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// ----------------------------------------------------------------------------
// Manifest and webhook

func TestManifest(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doReq(s, http.MethodGet, "/.well-known/farcaster.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var m Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "Monad Swap", m.Frame.Name)
	assert.Equal(t, "https://swap.example.test", m.Frame.HomeURL)
	assert.Equal(t, "1", m.Frame.Version)
	assert.Equal(t, "https://swap.example.test/api/webhook", m.Frame.WebhookURL)
}

func TestWebhookAcknowledges(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doReq(s, http.MethodPost, "/api/webhook", strings.NewReader(`{"event":"frame_added","fid":42}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestWebhookRejectsBadJSON(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doReq(s, http.MethodPost, "/api/webhook", strings.NewReader(`{nope`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doReq(s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestNotFoundIsJSON(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doReq(s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":404`)
}
