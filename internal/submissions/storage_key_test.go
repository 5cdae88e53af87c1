package submissions

import (
	"strings"
	"testing"
	"time"
)

func TestStorageKeyShape(t *testing.T) {
	now := time.Now()
	key := storageKeyFor("12345678909", "Meu Currículo.PDF", now)

	if !strings.HasPrefix(key, "curriculo_12345678909_") {
		t.Fatalf("key = %q, want curriculo_<cpf>_ prefix", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key = %q, want lowercase .pdf suffix", key)
	}
}

func TestStorageKeysNeverCollideWithinProcess(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := storageKeyFor("12345678909", "cv.pdf", now)
		if seen[key] {
			t.Fatalf("duplicate key issued: %q", key)
		}
		seen[key] = true
	}
}

func TestMonotonicMillisAdvances(t *testing.T) {
	now := time.Now()
	prev := monotonicMillis(now)
	for i := 0; i < 100; i++ {
		got := monotonicMillis(now)
		if got <= prev {
			t.Fatalf("millis went backwards: %d after %d", got, prev)
		}
		prev = got
	}
}
