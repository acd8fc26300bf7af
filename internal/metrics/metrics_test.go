package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	RecordRequest("get", "/api/repairs/:id", 200, 15*time.Millisecond)
	RecordRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/repairs/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRequestStarted(t *testing.T) {
	done := RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestHandler_ExposesDomainCounters(t *testing.T) {
	RecordRepairStatus("Terminé")
	RecordInvoiceIssued("Payé")
	RecordPush("sent")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "repairshop_repairs_status_changes_total")
	assert.Contains(t, body, "repairshop_invoices_issued_total")
	assert.Contains(t, body, "repairshop_push_notifications_total")
}
