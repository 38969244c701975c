package auth

import (
	"strings"
	"testing"
	"time"
)

func TestStateStoreConsumeOnce(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(time.Minute))

	if !store.consume("state-1") {
		t.Fatal("first consume should succeed")
	}
	if store.consume("state-1") {
		t.Fatal("second consume should fail")
	}
}

func TestStateStoreExpired(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(-time.Second))

	if store.consume("state-1") {
		t.Fatal("expired state should not be accepted")
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("https://app.example.com/login?from=cv", "tok123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "token=tok123") || !strings.Contains(got, "from=cv") {
		t.Errorf("got %q", got)
	}
}

func TestAppendTokenEmptyURL(t *testing.T) {
	if _, err := appendToken("", "tok"); err == nil {
		t.Fatal("expected error")
	}
}
