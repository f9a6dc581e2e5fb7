package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

func TestRecordParse(t *testing.T) {
	m := New()
	m.RecordParse(types.Diagnostics{
		Source:        types.SourcePhoneWide,
		TotalRows:     10,
		SkipReasons:   map[string]int{"missing_fields": 2},
		UnparsedDates: 3,
	})

	assert.Equal(t, 10.0, testutil.ToFloat64(m.rowsTotal.WithLabelValues("phone_wide")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsSkippedTotal.WithLabelValues("phone_wide", "missing_fields")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.fieldDefaults.WithLabelValues("phone_wide", "date")))
}

func TestRecordLoadAndDataset(t *testing.T) {
	m := New()
	m.RecordLoad(types.SourceChatCSV, "ok", 20*time.Millisecond)
	m.RecordLoad(types.SourceChatCSV, "failed", time.Millisecond)
	m.SetDataset(120, 0, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("chat_csv", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadsTotal.WithLabelValues("chat_csv", "failed")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.datasetRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetFallback))
}

func TestRecordArchive(t *testing.T) {
	m := New()
	m.RecordArchive(5, nil)
	m.RecordArchive(3, errors.New("throttled"))

	assert.Equal(t, 5.0, testutil.ToFloat64(m.archivedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.archiveErrors))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("/api/kpis", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `monti_http_requests_total{endpoint="/api/kpis",status="200"} 1`))
	assert.Contains(t, text, "monti_uptime_seconds")
}

func TestGetReturnsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
