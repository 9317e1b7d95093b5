package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0d 0h 0min 0s"},
		{1500 * time.Millisecond, "0d 0h 0min 1s"},
		{59 * time.Second, "0d 0h 0min 59s"},
		{61 * time.Minute, "0d 1h 1min 0s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "1d 26h 3min 4s"},
		{49 * time.Hour, "2d 49h 0min 0s"},
		{-time.Second, "0d 0h 0min 0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.d), tt.d.String())
	}
}
