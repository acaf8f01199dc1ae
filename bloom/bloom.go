/*
	this package provides the fixed size bloomfilter used by the rolling window.

	The bit array of a filter has exactly 2^(128/K) bits, so that every K-way
	split of a 128-bit murmur3 hash addresses it directly without any modulo.
	Only K = 4 and K = 8 are supported.

	Remarks: nothing here is thread safe, the caller must serialize the access
*/

package bloom

import (
	"errors"
)

var ErrUnsupportedHashCount = errors.New(`bloom: unsupported hash count, only 4 and 8 are allowed`)
var ErrSizeMismatch = errors.New(`bloom: mismatched M and K during Merge()`)
var ErrImplMismatch = errors.New(`bloom: mismatched implementation during Merge()`)
var ErrSeedMismatch = errors.New(`bloom: mismatched seed during Merge()`)

type BloomFilter interface {
	// Warning: only the Bloom with same K, M and Seed is mergeable.
	// Warning: if two BloomFilter are of different implementation, they may not be mergeable
	// otherwise, error will be raised
	Merge(g BloomFilter) error
	Clone() BloomFilter

	Add(value []byte)
	AddHash(h Hash)

	// false positive is possible, false negative is not
	Contains(value []byte) bool
	ContainsHash(h Hash) bool

	TestLocation(loc uint32) bool

	// the estimated number of distinct values added
	ApproximateCount() float64
	// the fraction of bits that are set
	FillRatio() float64
	// the probability that Contains() returns true for a value never added
	FalsePositiveRate() float64

	K() HashCount
	M() uint64
	Seed() Seed
}
