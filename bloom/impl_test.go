package bloom

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randValue returns n random bytes, e.g. a request id.
func randValue(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func TestAddandCheck(t *testing.T) {
	round := 100
	inputLength := 20
	inputCount := 50

	// with 2^16 bits and 8 locations per value, the false positive should be close to zero
	for i := 0; i < round; i++ {
		bloom := New(Hash8, 0)
		input := [][]byte{}

		for a := 0; a < inputCount; a++ {
			v := randValue(inputLength)
			input = append(input, v)
			bloom.Add(v)
		}

		for _, v := range input {
			assert.True(t, bloom.Contains(v))
		}

		for a := 0; a < 10; a++ {
			assert.False(t, bloom.Contains(randValue(inputLength)))
		}

		appx := bloom.ApproximateCount()
		assert.True(t, 48 <= appx && appx <= 52, "appx count %f", appx)
	}
}

func TestHelloWorld(t *testing.T) {
	for _, k := range []HashCount{Hash4, Hash8} {
		t.Run("k="+k.String(), func(t *testing.T) {
			filter := New(k, 0)

			filter.Add([]byte("hello"))
			filter.Add([]byte("world"))

			assert.True(t, filter.Contains([]byte("hello")))
			assert.True(t, filter.Contains([]byte("world")))

			assert.False(t, filter.Contains([]byte("foo")))
			assert.False(t, filter.Contains([]byte("bar")))
		})
	}
}

func TestEmptyValue(t *testing.T) {
	filter := New(Hash8, 0)
	assert.False(t, filter.Contains(nil))

	filter.Add(nil)
	assert.True(t, filter.Contains(nil))
	assert.True(t, filter.Contains([]byte{}))
}

func TestAddIsIdempotent(t *testing.T) {
	filter := New(Hash8, 0)
	value := []byte("https://example.com/page1")

	filter.Add(value)
	fill := filter.FillRatio()
	m := filter.M()

	filter.Add(value)
	filter.Add(value)

	assert.Equal(t, fill, filter.FillRatio())
	assert.Equal(t, m, filter.M())
	assert.True(t, filter.Contains(value))
}

func TestBitsAreMonotonic(t *testing.T) {
	filter := New(Hash8, 0)

	first := NewHash(Hash8, 0, []byte("first"))
	filter.AddHash(first)

	for i := 0; i < 1000; i++ {
		filter.Add([]byte(fmt.Sprintf("value-%d", i)))
		for _, loc := range first {
			require.True(t, filter.TestLocation(loc))
		}
	}
	assert.True(t, filter.ContainsHash(first))
}

func TestAddHashMatchesAdd(t *testing.T) {
	a := New(Hash8, 7)
	b := New(Hash8, 7)

	a.Add([]byte("abcd"))
	b.AddHash(NewHash(Hash8, 7, []byte("abcd")))

	for _, loc := range NewHash(Hash8, 7, []byte("abcd")) {
		assert.True(t, a.TestLocation(loc))
		assert.True(t, b.TestLocation(loc))
	}
	assert.Equal(t, a.FillRatio(), b.FillRatio())
}

func TestZeroHashCountIsHash8(t *testing.T) {
	filter := New(HashCount{}, 0)
	assert.Equal(t, Hash8, filter.K())
	assert.Equal(t, uint64(1<<16), filter.M())
}

func TestMerge(t *testing.T) {
	const seed = Seed(11)
	requestA := []byte("GET /orders/1001 req-7f3a")
	requestB := []byte("GET /orders/1002 req-81c4")
	unseen := []byte("GET /orders/1003 req-9d02")

	bloom1 := New(Hash8, seed)
	bloom2 := New(Hash8, seed)

	bloom1.Add(requestA)
	bloom2.Add(requestB)

	require.NoError(t, bloom1.Merge(bloom2))

	assert.True(t, bloom1.Contains(requestA))
	assert.True(t, bloom1.Contains(requestB))
	assert.False(t, bloom1.Contains(unseen))

	// the merged-in filter is untouched
	assert.False(t, bloom2.Contains(requestA))
	assert.True(t, bloom2.Contains(requestB))
	assert.False(t, bloom2.Contains(unseen))
}

type otherFilter struct {
	BloomFilter
}

func (otherFilter) K() HashCount { return Hash8 }
func (otherFilter) M() uint64    { return Hash8.M() }
func (otherFilter) Seed() Seed   { return 0 }

func TestMergeMismatch(t *testing.T) {
	bloom := New(Hash8, 0)

	assert.ErrorIs(t, bloom.Merge(New(Hash4, 0)), ErrSizeMismatch)
	assert.ErrorIs(t, bloom.Merge(New(Hash8, 1)), ErrSeedMismatch)
	assert.ErrorIs(t, bloom.Merge(otherFilter{}), ErrImplMismatch)
}

func TestClone(t *testing.T) {
	bloom1 := New(Hash8, 3)
	bloom1.Add([]byte("abcd"))

	bloom2 := bloom1.Clone()
	bloom2.Add([]byte("1234"))

	assert.Equal(t, bloom1.Seed(), bloom2.Seed())
	assert.True(t, bloom2.Contains([]byte("abcd")))
	assert.True(t, bloom2.Contains([]byte("1234")))
	assert.False(t, bloom1.Contains([]byte("1234")))
}

func TestFalsePositiveRate(t *testing.T) {
	const (
		numItems   = 2000
		testProbes = 10000
	)

	filter := New(Hash8, 0)
	assert.Zero(t, filter.FalsePositiveRate())

	for i := 0; i < numItems; i++ {
		filter.Add([]byte(fmt.Sprintf("https://example.com/added/%d", i)))
	}

	falsePositives := 0
	for i := 0; i < testProbes; i++ {
		if filter.Contains([]byte(fmt.Sprintf("https://example.com/notadded/%d", i))) {
			falsePositives++
		}
	}

	// fill ratio is about 1-e^(-16000/65536) ~ 0.22, so the expected rate is ~6e-6
	expected := filter.FalsePositiveRate()
	assert.Less(t, expected, 0.0001)
	assert.Less(t, float64(falsePositives)/float64(testProbes), 0.001)
}
