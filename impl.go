package rollingbloom

import (
	"github.com/sirupsen/logrus"

	"github.com/TritonHo/rollingbloom/bloom"
)

type impl struct {
	k    bloom.HashCount
	seed bloom.Seed

	// blooms[0] is always the oldest one, and the only one being checked
	blooms [2]bloom.BloomFilter

	shiftCondition ShiftCondition

	logger logrus.FieldLogger
}

// New returns an empty rolling filter. See Config for the defaults of the zero value.
func New(cfg Config) RollingBloom {
	k := cfg.HashCount
	if k == (bloom.HashCount{}) {
		k = bloom.Hash8
	}

	seed := cfg.Seed
	if cfg.Tag != "" {
		seed = bloom.SeedFromTag(cfg.Tag)
	}

	cond := cfg.ShiftCondition
	if cond == nil {
		cond = NewShiftByDuration(DefaultShiftDuration)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &impl{
		k:              k,
		seed:           seed,
		blooms:         [2]bloom.BloomFilter{bloom.New(k, seed), bloom.New(k, seed)},
		shiftCondition: cond,
		logger:         logger,
	}
}

func (im *impl) Add(value []byte) {
	h := bloom.NewHash(im.k, im.seed, value)

	// the value goes to both, so it is visible at once and survives the next shift
	im.blooms[0].AddHash(h)
	im.blooms[1].AddHash(h)

	if im.shiftCondition.ShouldShiftAfterIncrement() {
		im.Shift()
	}
}

func (im *impl) Shift() {
	im.shiftCondition.DoShift()

	// step 1: replace the oldest bloom with an empty one
	im.blooms[0] = bloom.New(im.k, im.seed)

	// step 2: swap, so the previous newest bloom becomes the oldest
	im.blooms[0], im.blooms[1] = im.blooms[1], im.blooms[0]

	im.logger.WithFields(logrus.Fields{
		"hash_count": im.k.Int(),
		"seed":       im.seed,
	}).Debug("rolling bloom shifted")
}

func (im *impl) Contains(value []byte) bool {
	// only the oldest bloom is checked, everything in the newest one is also in it
	return im.blooms[0].ContainsHash(bloom.NewHash(im.k, im.seed, value))
}

func (im *impl) ApproximateCount() float64 {
	return im.blooms[0].ApproximateCount()
}

func (im *impl) HashCount() bloom.HashCount {
	return im.k
}

func (im *impl) Seed() bloom.Seed {
	return im.seed
}
