package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rdb.Close()

	if err := Probe(rdb)(context.Background()); err != nil {
		t.Errorf("expected healthy probe, got %v", err)
	}

	mr.Close()
	if err := Probe(rdb)(context.Background()); err == nil {
		t.Error("expected probe to fail once the server is gone")
	}
}

func TestNewClient_BadURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected error for non-redis url")
	}
}
