// Package stats provides the aggregation primitives shared by analyzers:
// frequency counters, percentage rounding, completion ratios and histograms.
package stats

import (
	"cmp"
	"iter"
	"maps"
	"math"
	"slices"
)

// DefaultStep is the rounding granularity for completion percentages.
const DefaultStep = 5

// Counter counts occurrences of keys. The zero value is not usable; call
// NewCounter. A Counter is not safe for concurrent mutation.
type Counter[K cmp.Ordered] struct {
	counts map[K]int
	total  int
}

// NewCounter creates an empty Counter.
func NewCounter[K cmp.Ordered]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Add counts one occurrence of k.
func (c *Counter[K]) Add(k K) {
	c.AddN(k, 1)
}

// AddN counts n occurrences of k. Non-positive n is ignored.
func (c *Counter[K]) AddN(k K, n int) {
	if n <= 0 {
		return
	}
	c.counts[k] += n
	c.total += n
}

// AddAll counts every key yielded by seq.
func (c *Counter[K]) AddAll(seq iter.Seq[K]) {
	for k := range seq {
		c.Add(k)
	}
}

// Merge adds every count from other into c. Merging is commutative and
// associative: any merge order yields the same counts.
func (c *Counter[K]) Merge(other *Counter[K]) {
	if other == nil {
		return
	}
	for k, n := range other.counts {
		c.AddN(k, n)
	}
}

// Get returns the count for k.
func (c *Counter[K]) Get(k K) int {
	return c.counts[k]
}

// Total returns the sum of all counts.
func (c *Counter[K]) Total() int {
	return c.total
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	return len(c.counts)
}

// Map returns a copy of the counts.
func (c *Counter[K]) Map() map[K]int {
	return maps.Clone(c.counts)
}

// Keys returns the keys ordered by descending count, then ascending key.
func (c *Counter[K]) Keys() []K {
	keys := slices.Collect(maps.Keys(c.counts))
	slices.SortFunc(keys, func(a, b K) int {
		if n := cmp.Compare(c.counts[b], c.counts[a]); n != 0 {
			return n
		}
		return cmp.Compare(a, b)
	})
	return keys
}

// RoundToNearest rounds v to the nearest multiple of step. Halfway values round
// to the even multiple, so 12.5 with step 5 gives 10 and 17.5 gives 20.
// A step below 1 is treated as 1.
func RoundToNearest(v float64, step int) int {
	if step < 1 {
		step = 1
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.RoundToEven(v/float64(step))) * step
}

// Completion returns translated/expected as a percentage rounded to step.
// An expected value of zero or less yields 0.
func Completion(translated, expected, step int) int {
	if expected <= 0 {
		return 0
	}
	return RoundToNearest(float64(translated)/float64(expected)*100, step)
}

// RatioOfSums returns the completion of a group of keys computed from summed
// counts, not from averaged per-key percentages.
func RatioOfSums(translated, expected map[string]int, keys []string, step int) int {
	var t, e int
	for _, k := range keys {
		t += translated[k]
		e += expected[k]
	}
	return Completion(t, e, step)
}

// Histogram returns a frequency table of values with every integer from 0 to the
// maximum observed value present, zero-filled. Negative values are ignored and
// an input with no non-negative values yields an empty map.
func Histogram(values []int) map[int]int {
	hist := make(map[int]int)
	maxValue := -1
	for _, v := range values {
		if v < 0 {
			continue
		}
		hist[v]++
		maxValue = max(maxValue, v)
	}
	for i := 0; i <= maxValue; i++ {
		if _, ok := hist[i]; !ok {
			hist[i] = 0
		}
	}
	return hist
}

// Max returns the largest value, or 0 for empty input.
func Max(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// Mean returns the arithmetic mean rounded to two decimals, or 0 for empty input.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(values))*100) / 100
}
