package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2, 3}, 2))
	assert.False(t, Contains([]int{1, 2, 3}, 4))
	assert.False(t, Contains(nil, "x"))
}

func TestMap(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(x int) int { return x * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, []int{1, 2, 3}, SortedKeys(m))
}
