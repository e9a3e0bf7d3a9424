package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func Clamp[A constraints.Integer](n, lo, hi A) A {
	return Max(lo, Min(n, hi))
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// Contains reports whether v is in s.
func Contains[A comparable](s []A, v A) bool {
	return slices.Contains(s, v)
}
