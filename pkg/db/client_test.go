package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/khajaghar/pos-terminal/pkg/config"
)

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for missing database path")
	}
}

func TestNewMigratesAndPings(t *testing.T) {
	cfg := config.DBConfig{
		Path:        filepath.Join(t.TempDir(), "drafts.db"),
		BusyTimeout: time.Second,
	}

	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	if !client.DB().Migrator().HasTable("cart_drafts") {
		t.Fatal("expected cart_drafts table after migration")
	}
}
