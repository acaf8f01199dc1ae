package bloom

import (
	"math"
)

// EstimateCount approximates the number of distinct values added to a filter
// of m bits, given the number of bits set.
func EstimateCount(setBits, m uint64, k HashCount) float64 {
	// sentinal to avoid log(0)
	if setBits >= m {
		setBits = m - 1
	}

	mf := float64(m)
	kf := float64(k.Int())
	c := float64(setBits)

	// reference: https://en.wikipedia.org/wiki/Bloom_filter#Approximating_the_number_of_items_in_a_Bloom_filter
	return -1 * mf / kf * math.Log(1-(c/mf))
}

// EstimateFalsePositiveRate is the chance that all k locations of an unseen value are set.
func EstimateFalsePositiveRate(fillRatio float64, k HashCount) float64 {
	return math.Pow(fillRatio, float64(k.Int()))
}
