package persistence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned by Parse for empty input or a non-digit character.
var ErrSyntax = errors.New("invalid decimal number")

// Number is an arbitrary-precision non-negative integer stored as decimal
// digits. The zero value is the number zero and is ready to use.
//
// Every exported method leaves the digit vector trimmed.
type Number struct {
	d digits
}

// FromUint64 returns the Number with value v.
func FromUint64(v uint64) *Number {
	n := &Number{}
	for i := 0; v != 0; i++ {
		n.d.set(i, Digit(v%Base))
		v /= Base
	}
	n.d.trim()
	return n
}

// Copy returns a deep copy of n.
func (n *Number) Copy() *Number {
	return &Number{d: n.d.clone()}
}

// DigitCount returns the number of significant digits. Zero has one digit.
func (n *Number) DigitCount() int {
	n.d.trim()
	if len(n.d) <= 1 {
		return 1
	}
	return len(n.d)
}

// Digit returns the digit at position i, counting from the least
// significant digit. Positions beyond the number are 0.
func (n *Number) Digit(i int) Digit {
	return n.d.get(i)
}

// Digits returns the digits most significant first. Zero yields [0].
func (n *Number) Digits() []Digit {
	n.d.trim()
	if len(n.d) == 0 {
		return []Digit{0}
	}
	out := make([]Digit, len(n.d))
	for i, v := range n.d {
		out[len(n.d)-1-i] = v
	}
	return out
}

// IsZero reports whether n is zero.
func (n *Number) IsZero() bool {
	n.d.trim()
	return len(n.d) == 0
}

// Cmp compares n and m and returns -1, 0 or +1.
func (n *Number) Cmp(m *Number) int {
	n.d.trim()
	m.d.trim()

	if len(n.d) != len(m.d) {
		if len(n.d) < len(m.d) {
			return -1
		}
		return 1
	}

	for i := len(n.d) - 1; i >= 0; i-- {
		switch {
		case n.d[i] < m.d[i]:
			return -1
		case n.d[i] > m.d[i]:
			return 1
		}
	}
	return 0
}

// Equal reports whether n and m have the same value.
func (n *Number) Equal(m *Number) bool {
	return n.Cmp(m) == 0
}

// Add returns a + b. Neither operand is modified.
func Add(a, b *Number) *Number {
	size := max(len(a.d), len(b.d))
	sum := &Number{d: make(digits, size+1)}

	var carry Digit
	for i := 0; i < size; i++ {
		v := a.d.get(i) + b.d.get(i) + carry
		sum.d[i] = v % Base
		carry = v / Base
	}
	sum.d[size] = carry

	sum.d.trim()
	return sum
}

// Mul returns a * b using schoolbook multiplication. Neither operand is
// modified.
// Algorithm:
//   - For each digit of b, multiply-accumulate a row of a into the product
//     starting at that digit's position.
//   - The carry of each row is propagated to the end of the row before the
//     next row starts, so an accumulator slot never exceeds 9*9+9+9.
func Mul(a, b *Number) *Number {
	a.d.trim()
	b.d.trim()
	if len(a.d) == 0 || len(b.d) == 0 {
		return &Number{}
	}

	prod := &Number{d: make(digits, len(a.d)+len(b.d))}
	for j, bj := range b.d {
		if bj == 0 {
			continue
		}

		var carry Digit
		for i, ai := range a.d {
			v := prod.d[i+j] + ai*bj + carry
			prod.d[i+j] = v % Base
			carry = v / Base
		}
		for k := j + len(a.d); carry != 0; k++ {
			v := prod.d[k] + carry
			prod.d[k] = v % Base
			carry = v / Base
		}
	}

	prod.d.trim()
	return prod
}

// Parse reads a decimal number. Leading zeros are accepted. An empty string
// or any byte outside '0'..'9' is an error wrapping ErrSyntax.
func Parse(s string) (*Number, error) {
	if s == "" {
		return nil, fmt.Errorf("parse %q: %w", s, ErrSyntax)
	}

	n := &Number{d: make(digits, len(s))}
	for i := 0; i < len(s); i++ {
		c := s[len(s)-1-i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("parse %q: %w", s, ErrSyntax)
		}
		n.d[i] = c - '0'
	}

	n.d.trim()
	return n, nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// constants and tests.
func MustParse(s string) *Number {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String renders n most significant digit first. Zero renders as "0".
func (n *Number) String() string {
	n.d.trim()
	if len(n.d) == 0 {
		return "0"
	}

	var b strings.Builder
	b.Grow(len(n.d))
	for i := len(n.d) - 1; i >= 0; i-- {
		b.WriteByte(digitChar(n.d[i]))
	}
	return b.String()
}

// digitChar maps a digit value to its character; values from 10 upwards
// map to letters starting at 'A'.
//
//go:inline
func digitChar(v Digit) byte {
	if v < 10 {
		return '0' + v
	}
	return 'A' + (v - 10)
}
