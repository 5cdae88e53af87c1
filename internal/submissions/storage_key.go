package submissions

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

var lastKeyMillis atomic.Int64

// storageKeyFor builds the blob key for an upload:
// curriculo_<cpf>_<millis><ext>. The millisecond component is bumped past
// the last issued value, so two uploads in the same process never collide
// even within one clock tick.
func storageKeyFor(cpf, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("curriculo_%s_%d%s", cpf, monotonicMillis(now), ext)
}

func monotonicMillis(now time.Time) int64 {
	ms := now.UnixMilli()
	for {
		last := lastKeyMillis.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastKeyMillis.CompareAndSwap(last, ms) {
			return ms
		}
	}
}
