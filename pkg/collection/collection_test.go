package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/collection"
)

func TestUpsertReplacesInPlace(t *testing.T) {
	in := []int{1, 2, 3}
	out := collection.Upsert(in, 20, func(v int) bool { return v == 2 })

	assert.Equal(t, []int{1, 20, 3}, out)
	assert.Equal(t, []int{1, 2, 3}, in, "input must not be mutated")
}

func TestUpsertAppendsWhenMissing(t *testing.T) {
	in := make([]int, 2, 10)
	in[0], in[1] = 1, 2
	out := collection.Upsert(in, 9, func(v int) bool { return v == 9 })

	assert.Equal(t, []int{1, 2, 9}, out)
	assert.Len(t, in, 2)
}

func TestFilterNeverNil(t *testing.T) {
	out := collection.Filter([]int{1, 2}, func(int) bool { return false })
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSumIntAndUniqueBy(t *testing.T) {
	type line struct {
		id  string
		qty int
	}
	lines := []line{{"a", 2}, {"b", 3}}

	assert.Equal(t, 5, collection.SumInt(lines, func(l line) int { return l.qty }))
	assert.True(t, collection.UniqueBy(lines, func(l line) string { return l.id }))
	assert.False(t, collection.UniqueBy(append(lines, line{"a", 1}), func(l line) string { return l.id }))
}
