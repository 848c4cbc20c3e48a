package config

import (
	"testing"
	"time"
)

// TestTimeouts pins the documented defaults.
func TestTimeouts(t *testing.T) {
	tests := []struct {
		name     string
		got      time.Duration
		expected time.Duration
	}{
		{"RequestProcessing", RequestProcessing, 10 * time.Second},
		{"HTTPRead", HTTPRead, 10 * time.Second},
		{"HTTPWrite", HTTPWrite, 15 * time.Second},
		{"HTTPIdle", HTTPIdle, 120 * time.Second},
		{"CatalogLoad", CatalogLoad, 60 * time.Second},
		{"SessionTTL", SessionTTL, 10 * time.Minute},
		{"SessionCleanupInterval", SessionCleanupInterval, 5 * time.Minute},
		{"GracefulShutdown", GracefulShutdown, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

// TestTimeoutRelationships verifies the ordering the server depends on.
func TestTimeoutRelationships(t *testing.T) {
	if HTTPWrite <= RequestProcessing {
		t.Errorf("HTTPWrite (%v) must exceed RequestProcessing (%v)", HTTPWrite, RequestProcessing)
	}
	if SessionCleanupInterval > SessionTTL {
		t.Errorf("SessionCleanupInterval (%v) should not exceed SessionTTL (%v)", SessionCleanupInterval, SessionTTL)
	}
	if GracefulShutdown <= RequestProcessing {
		t.Errorf("GracefulShutdown (%v) must exceed RequestProcessing (%v)", GracefulShutdown, RequestProcessing)
	}
}
