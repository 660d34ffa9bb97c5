package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.ObserveRecords("question", "created", 3)
	r.ObserveRecords("question", "created", 2)
	r.ObserveRecords("category", "unchanged", 1)
	r.ObserveBatch("committed", 120*time.Millisecond)
	r.ObserveBatch("failed", time.Second)

	assert.Equal(t, 5.0, testutil.ToFloat64(r.records.WithLabelValues("question", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.records.WithLabelValues("category", "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batches.WithLabelValues("failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.records))
	assert.Equal(t, 2, testutil.CollectAndCount(r.batches))
	assert.Equal(t, 5, testutil.CollectAndCount(r.Registry()))
}

func TestRecorder_Push(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObserveRecords("user", "created", 1)

	require.NoError(t, r.Push(context.Background(), srv.URL, "quizseed"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/quizseed", path)
	assert.NotEmpty(t, body)
}

func TestRecorder_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRecorder().Push(context.Background(), srv.URL, "quizseed")
	assert.ErrorContains(t, err, "failed to push metrics")
}
