package gemini

import (
	"context"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "  ", "gemini-2.5-flash"); err == nil {
		t.Fatal("expected error when API key is empty")
	}
}

func TestNewClientDefaultsModel(t *testing.T) {
	client, err := NewClient(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.model != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, client.model)
	}
}
