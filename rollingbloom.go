/*
	Package rollingbloom answers "has this value been seen recently?" without storing the values.

	It keeps two bloomfilters of the same size. Every Add() writes to both of them, and
	Contains() only reads the older one. When the ShiftCondition trips, the older filter is
	dropped, the newer one takes its place and a fresh filter becomes the newer one.

	A value is therefore visible for at least one full window after it was added, and
	forgotten no later than two windows after it was added.

	Remarks: nothing here is thread safe, wrap it with a mutex if it is shared
*/

package rollingbloom

import (
	"github.com/sirupsen/logrus"

	"github.com/TritonHo/rollingbloom/bloom"
)

type Config struct {
	// the zero value means bloom.Hash8
	HashCount bloom.HashCount

	Seed bloom.Seed
	// when non-empty, the Seed is derived from the Tag and the Seed field is ignored
	Tag string

	// nil means ShiftByDuration with DefaultShiftDuration.
	// A typed nil of the strategies in this package never shifts, only Shift() rotates then.
	ShiftCondition ShiftCondition

	// nil means logrus.StandardLogger()
	Logger logrus.FieldLogger
}

type RollingBloom interface {
	// add value to both filters, then shift if the condition trips
	Add(value []byte)

	// false positive is possible, false negative is not for values added within the window
	Contains(value []byte) bool

	// drop the oldest filter regardless of the condition
	Shift()

	// return the appx number of unique values that Contains() will report
	ApproximateCount() float64

	HashCount() bloom.HashCount
	Seed() bloom.Seed
}
