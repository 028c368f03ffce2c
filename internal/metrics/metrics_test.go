package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRPC(t *testing.T) {
	m := New()
	m.ObserveRPC("/tabsplit.v1.LedgerService/AddExpense", "ok", 5*time.Millisecond)
	m.ObserveRPC("/tabsplit.v1.LedgerService/AddExpense", "ok", 7*time.Millisecond)
	m.ObserveRPC("/tabsplit.v1.LedgerService/AddExpense", "invalid_argument", time.Millisecond)

	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/tabsplit.v1.LedgerService/AddExpense", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/tabsplit.v1.LedgerService/AddExpense", "invalid_argument")); got != 1 {
		t.Errorf("invalid_argument count = %v, want 1", got)
	}
}

func TestSetLedgerSize(t *testing.T) {
	m := New()
	m.SetLedgerSize(3, 10, 2)

	if got := testutil.ToFloat64(m.participants); got != 3 {
		t.Errorf("participants = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.expenses); got != 10 {
		t.Errorf("expenses = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.settlements); got != 2 {
		t.Errorf("settlements = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetLedgerSize(1, 0, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "tabsplit_participants 1") {
		t.Errorf("expected participants gauge in output, got:\n%s", body)
	}
}
