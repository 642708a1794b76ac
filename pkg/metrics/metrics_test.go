package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(ledgerOperations.WithLabelValues("rsvp", "success"))
	RecordOperation("rsvp", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(ledgerOperations.WithLabelValues("rsvp", "success")))
}

func TestRecordDebit_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(coinsMoved.WithLabelValues("rsvp", "debit"))
	RecordDebit("rsvp", 0)
	RecordDebit("rsvp", 500)
	assert.Equal(t, before+500, testutil.ToFloat64(coinsMoved.WithLabelValues("rsvp", "debit")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `soundstage_http_requests_total{method="GET",route="/ping",status="200"}`)
}
