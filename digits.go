package persistence

// Base is the numeral base of every Number. It is fixed at ten.
const Base = 10

// Digit holds a single digit. Products of two digits plus a carry must fit:
// (Base-1)*(Base-1) + (Base-1)*(Base-1)/Base = 89 for base ten.
type Digit = uint8

// digits is a little-endian digit vector: index 0 is the least significant
// digit. Reads past the end return 0, so every sequence behaves as if it had
// infinitely many leading zeros.
type digits []Digit

// get returns the digit at index i, or 0 if i is outside the stored length.
//
//go:inline
func (d digits) get(i int) Digit {
	if i < 0 || i >= len(d) {
		return 0
	}

	return d[i]
}

// set writes v at index i, growing the sequence with zeros as needed.
// Writing 0 past the end is a no-op since the implicit digit is already 0.
func (d *digits) set(i int, v Digit) {
	if i >= len(*d) {
		if v == 0 {
			return
		}
		d.resize(i + 1)
	}

	(*d)[i] = v
}

// trim drops most significant zero slots so that the length equals the
// number of significant digits.
func (d *digits) trim() {
	n := len(*d)
	for n > 0 && (*d)[n-1] == 0 {
		n--
	}
	d.resize(n)
}

// resize truncates or zero-extends the sequence to n slots. Truncation
// discards digits; callers that need the value preserved must trim first.
func (d *digits) resize(n int) {
	switch {
	case n == len(*d):
		return
	case n < len(*d):
		*d = (*d)[:n]
	case n <= cap(*d):
		old := len(*d)
		*d = (*d)[:n]
		clear((*d)[old:])
	default:
		grown := make(digits, n, n+n/4+1)
		copy(grown, *d)
		*d = grown
	}
}

// clone returns an independent copy.
func (d digits) clone() digits {
	if len(d) == 0 {
		return nil
	}
	c := make(digits, len(d))
	copy(c, d)
	return c
}
