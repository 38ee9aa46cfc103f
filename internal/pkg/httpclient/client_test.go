package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reconciler/internal/pkg/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedClient(t *testing.T, timeout time.Duration) (*httpclient.Client, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	return httpclient.NewClient(provider.Tracer("test"), timeout), exporter
}

func TestClient_Do_EncodesAndDecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "V100", in["voucher"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"DELIVERED"}`))
	}))
	defer server.Close()

	client, exporter := newTracedClient(t, time.Second)

	var out struct {
		Status string `json:"status"`
	}
	err := client.Do(t.Context(), httpclient.Request{
		Method:   http.MethodPost,
		URL:      server.URL + "/track",
		Header:   http.Header{"X-Api-Key": []string{"secret"}},
		Body:     map[string]string{"voucher": "V100"},
		Out:      &out,
		SpanName: "acs-tracking",
	})

	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", out.Status)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "acs-tracking", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
}

func TestClient_Do_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, exporter := newTracedClient(t, time.Second)

	err := client.Do(t.Context(), httpclient.Request{URL: server.URL})

	require.Error(t, err)
	assert.True(t, httpclient.IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "token expired")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestClient_Do_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client, _ := newTracedClient(t, time.Second)

	var out map[string]any
	err := client.Do(t.Context(), httpclient.Request{URL: server.URL, Out: &out})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Do_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := newTracedClient(t, 20*time.Millisecond)

	err := client.Do(t.Context(), httpclient.Request{URL: server.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
