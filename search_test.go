package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	steps int
	n     string
}

type collectingReporter struct {
	results []result
}

func (c *collectingReporter) Report(steps int, n *Number) error {
	c.results = append(c.results, result{steps, n.String()})
	return nil
}

type recordingObserver struct {
	digits     []int
	candidates int
}

func (o *recordingObserver) DigitsChanged(digits int, _ Stats) {
	o.digits = append(o.digits, digits)
}

func (o *recordingObserver) Candidate(int) {
	o.candidates++
}

func TestNewSearcherRejectsBadRanges(t *testing.T) {
	rep := &collectingReporter{}
	bad := []SearchConfig{
		{StartDigits: 0, EndDigits: 3},
		{StartDigits: 4, EndDigits: 3},
		{StartDigits: 1, EndDigits: 3, Threshold: -1},
	}
	for _, cfg := range bad {
		_, err := NewSearcher(cfg, rep, nil)
		assert.ErrorIs(t, err, ErrBadRange, "%+v", cfg)
	}

	_, err := NewSearcher(SearchConfig{StartDigits: 1, EndDigits: 1}, nil, nil)
	assert.ErrorIs(t, err, ErrBadRange)
}

func TestSearchVisitsEveryCandidate(t *testing.T) {
	rep := &collectingReporter{}
	obs := &recordingObserver{}
	s, err := NewSearcher(SearchConfig{StartDigits: 1, EndDigits: 4, Threshold: 0}, rep, obs)
	require.NoError(t, err)

	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	var want []string
	for d := 1; d <= 4; d++ {
		want = append(want, bruteForceCandidates(d)...)
	}

	require.Len(t, rep.results, len(want))
	for i, r := range rep.results {
		assert.Equal(t, want[i], r.n)
		assert.Equal(t, Persistence(MustParse(r.n)), r.steps, r.n)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, obs.digits)
	assert.Equal(t, len(want), obs.candidates)
	assert.Equal(t, uint64(len(want)), stats.Candidates)
	assert.Equal(t, uint64(len(want)), stats.Results)
	assert.Equal(t, 4, stats.Digits)
}

func TestSearchReportsOnlyAtThreshold(t *testing.T) {
	rep := &collectingReporter{}
	s, err := NewSearcher(SearchConfig{StartDigits: 2, EndDigits: 5, Threshold: 7}, rep, nil)
	require.NoError(t, err)

	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	// 68889 is the smallest number with persistence 7 and no candidate of
	// up to five digits reaches 8.
	require.NotEmpty(t, rep.results)
	assert.Equal(t, result{7, "68889"}, rep.results[0])
	for _, r := range rep.results {
		assert.Equal(t, 7, r.steps)
	}
	assert.Equal(t, 7, stats.Best)
	assert.Equal(t, "68889", stats.BestNumber.String())
	assert.Equal(t, uint64(len(rep.results)), stats.Results)
}

func TestSearchStopsAtEndValue(t *testing.T) {
	rep := &collectingReporter{}
	s, err := NewSearcher(SearchConfig{StartDigits: 4, EndDigits: 10, EndValue: MustParse("2699"), Threshold: 0}, rep, nil)
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, rep.results)
	assert.Equal(t, "2677", rep.results[0].n)
	assert.Equal(t, "2699", rep.results[len(rep.results)-1].n)
}

func TestSearchStopsWhenContextDone(t *testing.T) {
	rep := &collectingReporter{}
	s, err := NewSearcher(SearchConfig{StartDigits: 1, EndDigits: 100}, rep, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Candidates)
	assert.False(t, stats.Finished.IsZero())
}

type cancellingObserver struct {
	cancel context.CancelFunc
	after  int
	seen   int
}

func (o *cancellingObserver) DigitsChanged(int, Stats) {}
func (o *cancellingObserver) Candidate(int) {
	o.seen++
	if o.seen == o.after {
		o.cancel()
	}
}

func TestSearchPollsContextBetweenCandidates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := &cancellingObserver{cancel: cancel, after: 5}
	s, err := NewSearcher(SearchConfig{StartDigits: 3, EndDigits: 100}, &collectingReporter{}, obs)
	require.NoError(t, err)

	stats, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(5), stats.Candidates)
}

func TestSearchAbortsOnReporterError(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	rep := ReporterFunc(func(int, *Number) error {
		calls++
		return boom
	})

	s, err := NewSearcher(SearchConfig{StartDigits: 1, EndDigits: 3}, rep, nil)
	require.NoError(t, err)

	stats, err := s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), stats.Candidates)
}

func TestSearchTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	var since []time.Time

	obs := &timingObserver{onDigits: func(s Stats) { since = append(since, s.DigitsSince) }}
	s, err := NewSearcher(SearchConfig{StartDigits: 1, EndDigits: 2}, &collectingReporter{}, obs)
	require.NoError(t, err)
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, base.Add(time.Second), stats.Started)
	require.Len(t, since, 2)
	assert.Equal(t, stats.Started, since[0])
	assert.True(t, since[1].After(since[0]))
	assert.True(t, stats.Finished.After(stats.DigitsSince))
}

type timingObserver struct {
	onDigits func(Stats)
}

func (o *timingObserver) DigitsChanged(_ int, s Stats) {
	o.onDigits(s)
}

func (o *timingObserver) Candidate(int) {}
