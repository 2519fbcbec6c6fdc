package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratehub/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestOpenERAPIClient_Success(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
            "result": "success",
            "base_code": "EUR",
            "rates": {"USD": 1.08, "GBP": 0.85}
        }`))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenERAPIClient(srv.Client(), srv.URL+"/v6/latest/")

	ratesMap, err := c.GetExchangeRates(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "/v6/latest/EUR", gotPath)
	require.Equal(t, "application/json", gotAccept)
	require.Len(t, ratesMap, 2)
	require.InDelta(t, 1.08, ratesMap["USD"], 1e-9)
	require.InDelta(t, 0.85, ratesMap["GBP"], 1e-9)
}

func TestOpenERAPIClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed server forces a dial error

	c := NewOpenERAPIClient(&http.Client{}, srv.URL+"/v6/latest")

	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestOpenERAPIClient_StatusCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewOpenERAPIClient(srv.Client(), srv.URL+"/v6/latest")

	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrUpstreamHTTP)
	require.Contains(t, err.Error(), "EUR")
}

func TestOpenERAPIClient_JSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{")) // invalid JSON
	}))
	t.Cleanup(srv.Close)

	c := NewOpenERAPIClient(srv.Client(), srv.URL+"/v6/latest")

	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestOpenERAPIClient_NonSuccessResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": "error", "base_code": "EUR", "rates": {"USD": 1.08}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenERAPIClient(srv.Client(), srv.URL+"/v6/latest")

	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrUpstreamLogic)
	require.Contains(t, err.Error(), `result "error"`)
}

func TestOpenERAPIClient_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result": "success", "base_code": "EUR", "rates": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewOpenERAPIClient(srv.Client(), srv.URL+"/v6/latest")

	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.ErrorIs(t, err, domain.ErrUpstreamLogic)
	require.Contains(t, err.Error(), "empty rates")
}

func TestOpenERAPIClient_BaseURLParseError(t *testing.T) {
	c := NewOpenERAPIClient(&http.Client{}, "http://::1]")
	_, err := c.GetExchangeRates(context.Background(), "EUR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse base URL")
}
