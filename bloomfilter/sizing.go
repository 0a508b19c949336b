package bloomfilter

import (
	"math"

	"github.com/bits-and-blooms/bloom/v3"
)

// FalsePositiveRate returns (1 - e^(-kn/m))^k, the expected false positive
// rate after n distinct insertions into m bits with k hashes.
func FalsePositiveRate(m, k, n uint) float64 {
	if m == 0 {
		return 1
	}
	return math.Pow(1-math.Exp(-float64(k)*float64(n)/float64(m)), float64(k))
}

// EstimateParameters returns the bit count and hash count needed to hold n
// items at false positive rate p.
func EstimateParameters(n uint, p float64) (m, k uint) {
	return bloom.EstimateParameters(n, p)
}
