package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockStorePinger struct {
	err error
}

func (m *mockStorePinger) Ping(_ context.Context) error { return m.err }

type mockSentimentChecker struct {
	err error
}

func (m *mockSentimentChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockSentimentChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["store"] != CheckOK {
		t.Errorf("expected store %q, got %q", CheckOK, r.Checks["store"])
	}
	if r.Checks["sentiment"] != CheckOK {
		t.Errorf("expected sentiment %q, got %q", CheckOK, r.Checks["sentiment"])
	}
}

func TestCheck_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("conn refused")}, &mockSentimentChecker{})
	r := svc.Check(context.Background())

	if r.Status != Down {
		t.Errorf("expected %q, got %q", Down, r.Status)
	}
	if r.Checks["store"] != CheckError {
		t.Errorf("expected store %q, got %q", CheckError, r.Checks["store"])
	}
	if r.Checks["sentiment"] != CheckOK {
		t.Errorf("expected sentiment %q, got %q", CheckOK, r.Checks["sentiment"])
	}
}

func TestCheck_SentimentError(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockSentimentChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["store"] != CheckOK {
		t.Errorf("expected store %q, got %q", CheckOK, r.Checks["store"])
	}
	if r.Checks["sentiment"] != CheckError {
		t.Errorf("expected sentiment %q, got %q", CheckError, r.Checks["sentiment"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockStorePinger{err: errors.New("store down")},
		&mockSentimentChecker{err: errors.New("provider down")},
	)
	r := svc.Check(context.Background())

	// недоступный стор важнее деградации сентимента
	if r.Status != Down {
		t.Errorf("expected %q, got %q", Down, r.Status)
	}
	if r.Checks["store"] != CheckError {
		t.Error("expected store error")
	}
	if r.Checks["sentiment"] != CheckError {
		t.Error("expected sentiment error")
	}
}

func TestCheck_NoSentimentChecker(t *testing.T) {
	svc := New(&mockStorePinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["store"] != CheckOK {
		t.Errorf("expected store %q, got %q", CheckOK, r.Checks["store"])
	}
	if _, ok := r.Checks["sentiment"]; ok {
		t.Error("sentiment check should be absent when checker is nil")
	}
}

func TestCheck_NoSentimentChecker_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Down {
		t.Errorf("expected %q, got %q", Down, r.Status)
	}
	if r.Checks["store"] != CheckError {
		t.Error("expected store error")
	}
	if _, ok := r.Checks["sentiment"]; ok {
		t.Error("sentiment check should be absent when checker is nil")
	}
}
