package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"Gmaj": 4, "Cmaj": 3, "Fmaj/C": 2}
	assert.Equal(t, []string{"Cmaj", "Fmaj/C", "Gmaj"}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[int]bool{}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 1, 50))
	assert.Equal(t, 50, Clamp(99, 1, 50))
	assert.Equal(t, 7, Clamp(7, 1, 50))
	assert.Equal(t, uint8(3), Min(uint8(3), uint8(9)))
	assert.Equal(t, uint8(9), Max(uint8(3), uint8(9)))
}

func TestSum(t *testing.T) {
	assert.Equal(t, uint64(10), Sum([]int{1, 2, 3, 4}))
	assert.Equal(t, uint64(0), Sum[int](nil))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"n", "p", "q"}, "p"))
	assert.False(t, Contains([]string{"n", "p", "q"}, "x"))
}
