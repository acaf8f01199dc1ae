package bloom

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// HashCount is the number of locations derived from one value.
// The zero value selects Hash8.
type HashCount struct {
	n uint8
}

var (
	Hash4 = HashCount{n: 4}
	Hash8 = HashCount{n: 8}
)

// ParseHashCount is the checked conversion for hash counts read from configuration.
func ParseHashCount(n int) (HashCount, error) {
	switch n {
	case 4:
		return Hash4, nil
	case 8:
		return Hash8, nil
	}
	return HashCount{}, ErrUnsupportedHashCount
}

func (k HashCount) Int() int {
	if k.n == 0 {
		return int(Hash8.n)
	}
	return int(k.n)
}

// SegmentBits is the width of each location, 128/K.
func (k HashCount) SegmentBits() uint {
	return uint(128 / k.Int())
}

// M is the number of bits in a filter using this hash count.
func (k HashCount) M() uint64 {
	return uint64(1) << k.SegmentBits()
}

func (k HashCount) String() string {
	return strconv.Itoa(k.Int())
}

// Seed salts the hash space. Filters with different seeds are not mergeable.
type Seed uint32

// SeedFromTag derives a Seed from a human readable tag, e.g. the purpose of the filter.
func SeedFromTag(tag string) Seed {
	h := xxhash.Sum64String(tag)
	return Seed(uint32(h) ^ uint32(h>>32))
}

// Hash holds the locations of one value, each in [0, M).
type Hash []uint32

// NewHash splits one 128-bit murmur3 hash of value into K equal width segments.
// It is not a cryptographic hash, do not use it against adversarial input.
func NewHash(k HashCount, seed Seed, value []byte) Hash {
	lo, hi := murmur3.Sum128WithSeed(value, uint32(seed))

	n := k.Int()
	width := k.SegmentBits()
	perWord := 64 / int(width)
	mask := uint64(1)<<width - 1

	output := make(Hash, n)
	for i := 0; i < n; i++ {
		word := lo
		if i >= perWord {
			word = hi
		}
		shift := uint(i%perWord) * width
		output[i] = uint32((word >> shift) & mask)
	}
	return output
}
