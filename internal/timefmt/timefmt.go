// Package timefmt renders elapsed search time.
package timefmt

import (
	"fmt"
	"time"
)

// Format renders d as "Dd Hh Mmin Ss", truncated to whole seconds. Days and
// hours are both totals: hours are not reduced by the whole days, so 26h
// renders as "1d 26h 0min 0s". Negative durations render as zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dd %dh %dmin %ds", secs/86400, secs/3600, secs/60%60, secs%60)
}
