// Copyright © 2020-2022 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package result

import (
	"github.com/shenwei356/util/stats"
	"github.com/twotwotwo/sorts"
	"github.com/zeebo/wyhash"
)

// Results is a list of Results in load order until sorted.
type Results []*Result

// Append adds r and records its load order.
func (rs *Results) Append(r *Result) {
	r.idx = len(*rs)
	*rs = append(*rs, r)
}

func (rs Results) Len() int      { return len(rs) }
func (rs Results) Swap(i, j int) { rs[i], rs[j] = rs[j], rs[i] }

// Less orders by containment descending. Ties keep load order, so any
// sorting algorithm gives the result of a stable sort.
func (rs Results) Less(i, j int) bool {
	a, b := rs[i], rs[j]
	if a.Containment == b.Containment {
		return a.idx < b.idx
	}
	return a.Containment > b.Containment
}

// Sort sorts by containment in descending order.
func (rs Results) Sort() {
	sorts.Quicksort(rs)
}

// Filter returns results with a containment >= threshold, keeping the order.
func (rs Results) Filter(threshold float64) Results {
	passed := make(Results, 0, len(rs))
	for _, r := range rs {
		if r.Containment >= threshold {
			passed = append(passed, r)
		}
	}
	return passed
}

var hashKey = func(s string) uint64 {
	return wyhash.HashString(s, 1)
}

// keyIndex numbers distinct strings in the order they are added. Strings
// sharing a hash key are told apart by comparing the stored values.
type keyIndex struct {
	m    map[uint64][]int
	keys []string
}

func newKeyIndex(size int) *keyIndex {
	return &keyIndex{m: make(map[uint64][]int, size), keys: make([]string, 0, size)}
}

// add returns the number of s and whether s was not seen before.
func (x *keyIndex) add(s string) (int, bool) {
	h := hashKey(s)
	for _, i := range x.m[h] {
		if x.keys[i] == s {
			return i, false
		}
	}
	i := len(x.keys)
	x.m[h] = append(x.m[h], i)
	x.keys = append(x.keys, s)
	return i, true
}

// NumSearchGenomes returns the number of distinct search genomes.
func (rs Results) NumSearchGenomes() int {
	x := newKeyIndex(len(rs))
	for _, r := range rs {
		x.add(r.SearchGenome)
	}
	return len(x.keys)
}

// NumMetagenomes returns the number of distinct metagenomes.
func (rs Results) NumMetagenomes() int {
	x := newKeyIndex(len(rs))
	for _, r := range rs {
		x.add(r.Metagenome)
	}
	return len(x.keys)
}

// MatchGroup is a search genome and the metagenomes it matched.
type MatchGroup struct {
	SearchGenome string
	Metagenomes  []string
}

// Groups collects matched metagenomes of each search genome. Groups and
// the metagenomes in them follow the order of rs.
func (rs Results) Groups() []*MatchGroup {
	groups := make([]*MatchGroup, 0, 128)
	x := newKeyIndex(128)

	var i int
	var ok bool
	for _, r := range rs {
		if i, ok = x.add(r.SearchGenome); ok {
			groups = append(groups, &MatchGroup{SearchGenome: r.SearchGenome})
		}
		groups[i].Metagenomes = append(groups[i].Metagenomes, r.Metagenome)
	}
	return groups
}

// MetagenomeList is a list of unique metagenomes.
type MetagenomeList []string

// Metagenomes returns unique metagenomes in the order of first occurrence.
func (rs Results) Metagenomes() MetagenomeList {
	x := newKeyIndex(128)
	for _, r := range rs {
		x.add(r.Metagenome)
	}
	return MetagenomeList(x.keys)
}

// ContainmentQuantiles returns the median and the 90th percentile of containment.
func (rs Results) ContainmentQuantiles() (float64, float64) {
	if len(rs) == 0 {
		return 0, 0
	}
	q := stats.NewQuantiler()
	for _, r := range rs {
		q.Add(r.Containment)
	}
	return q.Percentile(50), q.Percentile(90)
}
