package persistence

// DigitsProduct returns the product of the digits of n: one persistence
// step. Zero yields zero.
func DigitsProduct(n *Number) *Number {
	n.d.trim()
	if len(n.d) == 0 {
		return &Number{}
	}

	acc := FromUint64(uint64(n.d[0]))
	for i := 1; i < len(n.d); i++ {
		if acc.IsZero() {
			break
		}
		acc = Mul(acc, FromUint64(uint64(n.d[i])))
	}

	return acc
}

// Persistence returns the number of DigitsProduct steps needed to bring n
// down to a single digit. The step that produces the single digit counts.
func Persistence(n *Number) int {
	steps := 0
	acc := n
	for acc.DigitCount() > 1 {
		acc = DigitsProduct(acc)
		steps++
	}

	return steps
}

// PersistenceChain returns n followed by every intermediate product down to
// the final single digit.
func PersistenceChain(n *Number) []*Number {
	chain := []*Number{n.Copy()}
	acc := chain[0]
	for acc.DigitCount() > 1 {
		acc = DigitsProduct(acc)
		chain = append(chain, acc)
	}

	return chain
}
