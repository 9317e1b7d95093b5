package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCandidate reports a number outside the enumerated search space.
	ErrNotCandidate = errors.New("not a search candidate")

	// ErrInvariantViolation is wrapped by the panic raised when Next is handed
	// a number it cannot advance.
	ErrInvariantViolation = errors.New("search space invariant violated")
)

// IsAdmissible reports whether n can be a multiplicative persistence record:
// no digit is zero and, reading from the most significant digit, the digits
// never decrease.
func IsAdmissible(n *Number) bool {
	n.d.trim()
	for i := 0; i < len(n.d); i++ {
		if n.d[i] == 0 {
			return false
		}
		// Storage order is least significant first, so each digit must be at
		// least as large as its more significant neighbour.
		if n.d[i] < n.d.get(i+1) {
			return false
		}
	}

	return true
}

// PrefixKind is the closed set of leading digit patterns a record candidate
// may start with before its run of 7s, 8s and 9s.
type PrefixKind uint8

// Prefix kinds. Apart from PrefixNone they are listed in the order Next
// visits them within one digit count.
const (
	PrefixNone PrefixKind = iota // suffix only: 7, 8 and 9
	Prefix26                     // 26
	Prefix2                      // a single 2
	Prefix35                     // 35
	Prefix3                      // a single 3
	Prefix4                      // a single 4
	Prefix5Run                   // one or more 5s
	Prefix6                      // a single 6
)

// Prefix is the classified head of a candidate. Len is the number of digits
// it covers; only Prefix5Run has a variable length.
type Prefix struct {
	Kind PrefixKind
	Len  int
}

// String returns the prefix digits, "none" for an empty prefix and "5x<k>"
// for a run of k fives.
func (p Prefix) String() string {
	switch p.Kind {
	case PrefixNone:
		return "none"
	case Prefix26:
		return "26"
	case Prefix2:
		return "2"
	case Prefix35:
		return "35"
	case Prefix3:
		return "3"
	case Prefix4:
		return "4"
	case Prefix5Run:
		return fmt.Sprintf("5x%d", p.Len)
	case Prefix6:
		return "6"
	default:
		return fmt.Sprintf("PrefixKind(%d)", p.Kind)
	}
}

// Classify returns the prefix of n. Numbers whose leading digit is 0 or 1
// have no prefix in the search space and yield ErrNotCandidate.
func Classify(n *Number) (Prefix, error) {
	n.d.trim()
	return classify(n.d)
}

func classify(d digits) (Prefix, error) {
	top := len(d) - 1
	if top < 0 {
		return Prefix{Kind: PrefixNone}, nil
	}

	switch first, second := d[top], d.get(top-1); first {
	case 2:
		if second == 6 {
			return Prefix{Kind: Prefix26, Len: 2}, nil
		}
		return Prefix{Kind: Prefix2, Len: 1}, nil
	case 3:
		if second == 5 {
			return Prefix{Kind: Prefix35, Len: 2}, nil
		}
		return Prefix{Kind: Prefix3, Len: 1}, nil
	case 4:
		return Prefix{Kind: Prefix4, Len: 1}, nil
	case 5:
		k := 1
		for k <= top && d[top-k] == 5 {
			k++
		}
		return Prefix{Kind: Prefix5Run, Len: k}, nil
	case 6:
		return Prefix{Kind: Prefix6, Len: 1}, nil
	case 7, 8, 9:
		return Prefix{Kind: PrefixNone}, nil
	default:
		return Prefix{}, fmt.Errorf("leading digit %d: %w", first, ErrNotCandidate)
	}
}

// split classifies d and checks that the digits below the prefix form a
// regular suffix: only 7s, 8s and 9s, never decreasing towards the least
// significant digit.
func split(d digits) (Prefix, error) {
	if len(d) == 0 {
		return Prefix{}, fmt.Errorf("zero: %w", ErrNotCandidate)
	}

	p, err := classify(d)
	if err != nil {
		return p, err
	}

	// Single digit candidates are 7, 8 and 9 only; the search starts there.
	if len(d) == 1 && p.Kind != PrefixNone {
		return p, fmt.Errorf("single digit %d: %w", d[0], ErrNotCandidate)
	}

	suffix := len(d) - p.Len
	for i := 0; i < suffix; i++ {
		if d[i] < 7 {
			return p, fmt.Errorf("suffix digit %d at %d: %w", d[i], i, ErrNotCandidate)
		}
		if i+1 < suffix && d[i] < d[i+1] {
			return p, fmt.Errorf("suffix decreases at %d: %w", i, ErrNotCandidate)
		}
	}

	return p, nil
}

// IsCandidate reports whether n belongs to the space enumerated by Smallest
// and Next. Every candidate is admissible; the converse does not hold.
func IsCandidate(n *Number) bool {
	n.d.trim()
	_, err := split(n.d)
	return err == nil
}

// Smallest returns the first candidate with the given number of digits:
// 7 for one digit, otherwise 2677...7.
func Smallest(digitCount int) *Number {
	if digitCount < 1 {
		panic(fmt.Errorf("smallest candidate with %d digits: %w", digitCount, ErrInvariantViolation))
	}
	if digitCount == 1 {
		return FromUint64(7)
	}

	n := &Number{d: make(digits, digitCount)}
	for i := range n.d {
		n.d[i] = 7
	}
	n.d[digitCount-1] = 2
	n.d[digitCount-2] = 6
	return n
}

// Next advances the candidate n in place to the next candidate in numeric
// order and reports whether its digit count grew.
// Algorithm:
//   - The digits below the prefix are a non-decreasing run of 7s, 8s and 9s.
//     If that run is not all 9s, bump its lowest non-9 digit and copy the new
//     value into every digit below it. The prefix stays put.
//   - Otherwise reset the run to 7s and move the prefix to its successor:
//     26 -> 2 -> 35 -> 3 -> 4 -> 55..5 -> ... -> 5 -> 6 -> none. A number
//     with no prefix becomes 26 followed by 7s, one digit longer.
//
// Next panics with an error wrapping ErrInvariantViolation when n is not a
// candidate (see IsCandidate).
func Next(n *Number) bool {
	n.d.trim()
	p, err := split(n.d)
	if err != nil {
		panic(fmt.Errorf("next after %s: %w: %w", n, ErrInvariantViolation, err))
	}

	d := n.d
	suffix := len(d) - p.Len
	if suffix > 0 {
		if d[suffix-1] != 9 {
			i := 0
			for d[i] == 9 {
				i++
			}
			v := d[i] + 1
			for j := 0; j <= i; j++ {
				d[j] = v
			}
			return false
		}

		for j := 0; j < suffix; j++ {
			d[j] = 7
		}
	}

	top := len(d) - 1
	switch p.Kind {
	case Prefix26:
		d[top-1] = 7
	case Prefix2:
		d[top] = 3
		d[top-1] = 5
	case Prefix35:
		d[top-1] = 7
	case Prefix3:
		d[top] = 4
	case Prefix4:
		for j := range d {
			d[j] = 5
		}
	case Prefix5Run:
		if p.Len == 1 {
			d[top] = 6
		} else {
			d[len(d)-p.Len] = 7
		}
	case Prefix6:
		d[top] = 7
	case PrefixNone:
		d[top] = 6
		n.d.set(top+1, 2)
		return true
	default:
		panic(fmt.Errorf("next after %s: prefix %s: %w", n, p, ErrInvariantViolation))
	}

	return false
}
