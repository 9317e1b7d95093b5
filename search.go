package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBadRange is returned by NewSearcher for an unusable search range.
var ErrBadRange = errors.New("invalid search range")

// Reporter receives every candidate whose persistence reaches the threshold.
type Reporter interface {
	Report(steps int, n *Number) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(steps int, n *Number) error

// Report calls f(steps, n).
func (f ReporterFunc) Report(steps int, n *Number) error { return f(steps, n) }

// Observer is notified of search progress. Both methods run on the search
// goroutine, between candidates.
type Observer interface {
	// DigitsChanged is called before the first candidate of each digit count.
	DigitsChanged(digits int, stats Stats)
	// Candidate is called after each evaluated candidate.
	Candidate(steps int)
}

// SearchConfig bounds a search.
type SearchConfig struct {
	// StartDigits is the digit count of the first candidate; at least 1.
	StartDigits int
	// EndDigits stops the search once candidates grow beyond it.
	EndDigits int
	// EndValue, when set, also stops the search at the first candidate
	// greater than it.
	EndValue *Number
	// Threshold is the minimum persistence that gets reported.
	Threshold int
}

// Stats summarizes a search run.
type Stats struct {
	Candidates  uint64
	Results     uint64
	Best        int
	BestNumber  *Number
	Digits      int
	Started     time.Time
	DigitsSince time.Time
	Finished    time.Time
}

// Searcher walks the search space and evaluates the persistence of every
// candidate.
type Searcher struct {
	cfg      SearchConfig
	reporter Reporter
	observer Observer
	now      func() time.Time
}

// NewSearcher validates cfg and returns a Searcher. observer may be nil.
func NewSearcher(cfg SearchConfig, reporter Reporter, observer Observer) (*Searcher, error) {
	switch {
	case cfg.StartDigits < 1:
		return nil, fmt.Errorf("start digits %d: %w", cfg.StartDigits, ErrBadRange)
	case cfg.EndDigits < cfg.StartDigits:
		return nil, fmt.Errorf("end digits %d below start %d: %w", cfg.EndDigits, cfg.StartDigits, ErrBadRange)
	case cfg.Threshold < 0:
		return nil, fmt.Errorf("threshold %d: %w", cfg.Threshold, ErrBadRange)
	case reporter == nil:
		return nil, fmt.Errorf("nil reporter: %w", ErrBadRange)
	}

	return &Searcher{cfg: cfg, reporter: reporter, observer: observer, now: time.Now}, nil
}

// Run searches until the range is exhausted, the reporter fails or ctx is
// done. ctx is only checked between candidates. The returned Stats are valid
// in every case; a cancelled run returns ctx.Err().
func (s *Searcher) Run(ctx context.Context) (Stats, error) {
	stats := Stats{Started: s.now()}
	stats.DigitsSince = stats.Started

	current := Smallest(s.cfg.StartDigits)
	announce := true

	var err error
	for current.DigitCount() <= s.cfg.EndDigits {
		if s.cfg.EndValue != nil && current.Cmp(s.cfg.EndValue) > 0 {
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}

		if announce {
			stats.Digits = current.DigitCount()
			if s.observer != nil {
				s.observer.DigitsChanged(stats.Digits, stats)
			}
			stats.DigitsSince = s.now()
		}

		steps := Persistence(current)
		stats.Candidates++
		if s.observer != nil {
			s.observer.Candidate(steps)
		}
		if steps > stats.Best || stats.BestNumber == nil {
			stats.Best = steps
			stats.BestNumber = current.Copy()
		}
		if steps >= s.cfg.Threshold {
			stats.Results++
			if err = s.reporter.Report(steps, current.Copy()); err != nil {
				err = fmt.Errorf("report %d steps for %s: %w", steps, current, err)
				break
			}
		}

		announce = Next(current)
	}

	stats.Finished = s.now()
	return stats, err
}
