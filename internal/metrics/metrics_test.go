package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.ErrInvalidAmount, "validation"},
		{fmt.Errorf("s.repo.Atomic -> %w", domain.ErrWalletNotFound), "not_found"},
		{domain.ErrInsufficientFunds, "insufficient_funds"},
		{domain.ErrCrossEvent, "state"},
		{domain.ErrBusy, "busy"},
		{domain.ErrNotEventOrganizer, "unauthorized"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestObserveLedgerOperation(t *testing.T) {
	before := testutil.ToFloat64(metrics().ledgerOps.WithLabelValues("payment", "insufficient_funds"))

	ObserveLedgerOperation("payment", domain.ErrInsufficientFunds, 3*time.Millisecond)

	after := testutil.ToFloat64(metrics().ledgerOps.WithLabelValues("payment", "insufficient_funds"))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	ObserveHTTPRequest("/api/v1/events", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mintly_http_requests_total"))
}
