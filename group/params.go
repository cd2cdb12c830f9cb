package group

import "sort"

// Parameters of group generation. Both safe primes have BitLength-1 bits, so the
// modulus has about 2*BitLength bits. Certainty bounds the probability that a
// generated prime is composite by 2^-Certainty.
type Parameters struct {
	BitLength int
	Certainty int
}

const (
	// MinBitLength is the smallest BitLength for which two distinct safe primes
	// with a nontrivial subgroup exist.
	MinBitLength = 7

	DefaultBitLength = 1024
	DefaultCertainty = 50
)

// DefaultParameters holds per bit length the parameters for generating groups.
var DefaultParameters = map[int]Parameters{
	1024: {BitLength: 1024, Certainty: DefaultCertainty},
	2048: {BitLength: 2048, Certainty: 80},
	4096: {BitLength: 4096, Certainty: 128},
}

// getAvailableBitLengths returns the bit lengths for the provided map of parameters.
func getAvailableBitLengths(params map[int]Parameters) []int {
	lengths := make([]int, 0, len(params))
	for k := range params {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)
	return lengths
}

// DefaultBitLengths is a slice of integers holding the bit lengths for which
// parameters are available.
var DefaultBitLengths = getAvailableBitLengths(DefaultParameters)
