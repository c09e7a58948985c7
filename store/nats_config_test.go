package store

import (
	"context"
	"testing"

	"github.com/vinayprograms/resumekit/errors"
)

func TestNATSStoreConfig_Defaults(t *testing.T) {
	cfg, err := NATSStoreConfig{}.withDefaults()
	if err != nil {
		t.Fatalf("withDefaults failed: %v", err)
	}
	def := DefaultNATSStoreConfig()
	if cfg.Bucket != def.Bucket || cfg.Key != def.Key || cfg.History != 1 || cfg.MaxValueSize != def.MaxValueSize || cfg.Timeout != def.Timeout {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	cfg, err = NATSStoreConfig{History: MaxNATSHistory}.withDefaults()
	if err != nil || cfg.History != MaxNATSHistory {
		t.Errorf("history at the limit should pass: %d, %v", cfg.History, err)
	}
}

func TestNATSStoreConfig_HistoryLimit(t *testing.T) {
	for _, history := range []int{MaxNATSHistory + 1, 256, 300} {
		_, err := NATSStoreConfig{History: history}.withDefaults()
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("history %d: expected INVALID_INPUT, got %v", history, err)
		}
	}

	// Rejected before any connection is needed.
	_, err := NewNATSStore(context.Background(), NATSStoreConfig{History: 256})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewNATSStore: expected INVALID_INPUT, got %v", err)
	}
}
