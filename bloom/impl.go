package bloom

import (
	"github.com/bits-and-blooms/bitset"
)

type impl struct {
	bitmap *bitset.BitSet
	k      HashCount
	seed   Seed
}

// New returns an empty filter of 2^(128/k) bits.
// For Hash4 that is 512MiB of address space, the pages are only touched when bits are set.
func New(k HashCount, seed Seed) BloomFilter {
	if k.n == 0 {
		k = Hash8
	}
	return _new(k, seed, bitset.New(uint(k.M())))
}

func _new(k HashCount, seed Seed, bitmap *bitset.BitSet) *impl {
	return &impl{
		bitmap: bitmap,
		k:      k,
		seed:   seed,
	}
}

func (im *impl) Merge(g BloomFilter) error {
	if im.k != g.K() || im.M() != g.M() {
		return ErrSizeMismatch
	}
	if im.seed != g.Seed() {
		return ErrSeedMismatch
	}
	g1, ok := g.(*impl)
	if !ok {
		return ErrImplMismatch
	}

	im.bitmap.InPlaceUnion(g1.bitmap)
	return nil
}

func (im *impl) Clone() BloomFilter {
	return _new(im.k, im.seed, im.bitmap.Clone())
}

func (im *impl) Add(value []byte) {
	im.AddHash(NewHash(im.k, im.seed, value))
}

func (im *impl) AddHash(h Hash) {
	for _, loc := range h {
		im.bitmap.Set(uint(loc))
	}
}

func (im *impl) Contains(value []byte) bool {
	return im.ContainsHash(NewHash(im.k, im.seed, value))
}

func (im *impl) ContainsHash(h Hash) bool {
	for _, loc := range h {
		if !im.bitmap.Test(uint(loc)) {
			return false
		}
	}
	return true
}

func (im *impl) TestLocation(loc uint32) bool {
	return im.bitmap.Test(uint(loc))
}

func (im *impl) ApproximateCount() float64 {
	return EstimateCount(uint64(im.bitmap.Count()), im.M(), im.k)
}

func (im *impl) FillRatio() float64 {
	return float64(im.bitmap.Count()) / float64(im.M())
}

func (im *impl) FalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(im.FillRatio(), im.k)
}

func (im *impl) K() HashCount {
	return im.k
}

func (im *impl) M() uint64 {
	return im.k.M()
}

func (im *impl) Seed() Seed {
	return im.seed
}
