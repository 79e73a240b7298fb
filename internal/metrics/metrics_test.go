package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestRecordRoll(t *testing.T) {
	before := testutil.ToFloat64(rollTotal.WithLabelValues("win"))
	RecordRoll("win", 12, time.Now())
	after := testutil.ToFloat64(rollTotal.WithLabelValues("win"))

	if after-before != 1 {
		t.Errorf("dice_rolls_total{result=win} grew by %v, want 1", after-before)
	}
}

func TestRecordRollRejected(t *testing.T) {
	before := testutil.ToFloat64(rollTotal.WithLabelValues("INSUFFICIENT_FUNDS"))
	RecordRollRejected("INSUFFICIENT_FUNDS", time.Now())
	after := testutil.ToFloat64(rollTotal.WithLabelValues("INSUFFICIENT_FUNDS"))

	if after-before != 1 {
		t.Errorf("rejected rolls grew by %v, want 1", after-before)
	}
}

func TestRecordRegistration(t *testing.T) {
	before := testutil.ToFloat64(registrationTotal.WithLabelValues("success", "true"))
	RecordRegistration("success", true)
	after := testutil.ToFloat64(registrationTotal.WithLabelValues("success", "true"))

	if after-before != 1 {
		t.Errorf("registrations grew by %v, want 1", after-before)
	}
}

func TestRecordChallengeFees(t *testing.T) {
	before := testutil.ToFloat64(challengeFeesTotal.WithLabelValues("house"))
	RecordChallengeFees(decimal.NewFromInt(9), decimal.NewFromInt(21))
	after := testutil.ToFloat64(challengeFeesTotal.WithLabelValues("house"))

	if after-before != 9 {
		t.Errorf("challenge_fees_total{recipient=house} grew by %v, want 9", after-before)
	}
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetrics())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpReqTotal.WithLabelValues("/ping/:id", "GET", "418"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))

	after := testutil.ToFloat64(httpReqTotal.WithLabelValues("/ping/:id", "GET", "418"))
	if after-before != 1 {
		t.Errorf("http_requests_total grew by %v, want 1", after-before)
	}
}
