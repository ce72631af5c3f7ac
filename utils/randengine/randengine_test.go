package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := randengine.New(42), randengine.New(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Perm(10), b.Perm(10))
	}
	assert.NotEqual(t, randengine.New(1).Perm(20), randengine.New(2).Perm(20))
}

func TestPick(t *testing.T) {
	e := randengine.New(3)
	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[randengine.Pick(e, items)] = true
	}
	assert.Len(t, seen, 3)
}
