package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe("todos", collection.OpCreate, nil)
	m.Observe("todos", collection.OpCreate, nil)
	m.Observe("todos", collection.OpDelete, errors.NewNotFoundError("todos", "x"))
	m.Observe("timers", collection.OpUpdate, assert.AnError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("todos", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("todos", "delete", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("timers", "update", "error")))
}

func TestObserve_AsCollectionObserver(t *testing.T) {
	m := New()
	var observer collection.Observer = m.Observe

	observer("books", collection.OpList, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("books", "list", "ok")))
}

func TestTimerAndBackupMetrics(t *testing.T) {
	m := New()
	at := time.Unix(1700000000, 0)

	m.TimerFinished(domain.Timer{Category: domain.TimerStudy})
	m.BackupDone(at, nil)
	m.BackupDone(at.Add(time.Hour), assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.timerCompletions.WithLabelValues("study")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backups.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backups.WithLabelValues("error")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.lastBackup))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/books", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.Observe("books", collection.OpCreate, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `daylog_collection_operations_total{collection="books",op="create",result="ok"} 1`)
	assert.Contains(t, body, `daylog_http_request_duration_seconds_count{code="200",method="GET",route="/api/books"} 1`)
}
