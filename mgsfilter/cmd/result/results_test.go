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
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResults(rows ...*Result) Results {
	rs := make(Results, 0, len(rows))
	for _, r := range rows {
		rs.Append(r)
	}
	return rs
}

func row(g, m string, c float64) *Result {
	return &Result{SearchGenome: g, Metagenome: m, Containment: c}
}

// the three rows used as the worked example throughout
func exampleResults() Results {
	return newResults(
		row("g1", "a", 0.9),
		row("g1", "b", 0.2),
		row("g2", "a", 0.5),
	)
}

func randomResults(n int) Results {
	rng := rand.New(rand.NewSource(11))
	rs := make(Results, 0, n)
	for i := 0; i < n; i++ {
		rs.Append(row(
			fmt.Sprintf("g%d", rng.Intn(50)),
			fmt.Sprintf("m%d", rng.Intn(200)),
			float64(rng.Intn(11))/10, // plenty of ties
		))
	}
	return rs
}

func TestFilter(t *testing.T) {
	rs := randomResults(2000)

	for _, threshold := range []float64{0, 0.1, 0.35, 0.5, 0.9, 1} {
		passed := rs.Filter(threshold)
		assert.LessOrEqual(t, len(passed), len(rs))
		assert.LessOrEqual(t, passed.NumSearchGenomes(), rs.NumSearchGenomes())
		for _, r := range passed {
			assert.GreaterOrEqual(t, r.Containment, threshold)
		}

		var n int
		for _, r := range rs {
			if r.Containment >= threshold {
				n++
			}
		}
		assert.Equal(t, n, len(passed), threshold)
	}

	assert.Equal(t, len(rs), len(rs.Filter(0)))
}

func TestSort(t *testing.T) {
	rs := randomResults(5000)
	rs.Sort()

	for i := 1; i < len(rs); i++ {
		a, b := rs[i-1], rs[i]
		require.GreaterOrEqual(t, a.Containment, b.Containment, i)
		if a.Containment == b.Containment {
			require.Less(t, a.idx, b.idx, "ties should keep load order")
		}
	}
}

func TestExample(t *testing.T) {
	rs := exampleResults()
	assert.Equal(t, 2, rs.NumSearchGenomes())

	passed := rs.Filter(0.5)
	passed.Sort()

	require.Len(t, passed, 2)
	assert.Equal(t, "g1", passed[0].SearchGenome)
	assert.Equal(t, "a", passed[0].Metagenome)
	assert.Equal(t, 0.9, passed[0].Containment)
	assert.Equal(t, "g2", passed[1].SearchGenome)
	assert.Equal(t, 0.5, passed[1].Containment)

	assert.Equal(t, 2, passed.NumSearchGenomes())
	assert.Equal(t, 1, passed.NumMetagenomes())

	groups := passed.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, &MatchGroup{SearchGenome: "g1", Metagenomes: []string{"a"}}, groups[0])
	assert.Equal(t, &MatchGroup{SearchGenome: "g2", Metagenomes: []string{"a"}}, groups[1])

	assert.Equal(t, MetagenomeList{"a"}, passed.Metagenomes())
}

func TestGroups(t *testing.T) {
	rs := newResults(
		row("g2", "m3", 0.8),
		row("g1", "m1", 0.7),
		row("g2", "m1", 0.6),
		row("g1", "m2", 0.5),
		row("g3", "m3", 0.4),
	)
	groups := rs.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "g2", groups[0].SearchGenome)
	assert.Equal(t, []string{"m3", "m1"}, groups[0].Metagenomes)
	assert.Equal(t, "g1", groups[1].SearchGenome)
	assert.Equal(t, []string{"m1", "m2"}, groups[1].Metagenomes)
	assert.Equal(t, "g3", groups[2].SearchGenome)
	assert.Equal(t, []string{"m3"}, groups[2].Metagenomes)

	// every match of the table is in its group, in order
	rs = randomResults(3000)
	rs.Sort()
	matches := make(map[string][]string)
	for _, r := range rs {
		matches[r.SearchGenome] = append(matches[r.SearchGenome], r.Metagenome)
	}
	groups = rs.Groups()
	require.Len(t, groups, len(matches))
	for _, g := range groups {
		assert.Equal(t, matches[g.SearchGenome], g.Metagenomes, g.SearchGenome)
	}
}

func TestMetagenomes(t *testing.T) {
	rs := newResults(
		row("g1", "m2", 0.9),
		row("g2", "m1", 0.8),
		row("g3", "m2", 0.7),
		row("g3", "m3", 0.6),
		row("g1", "m1", 0.5),
	)
	assert.Equal(t, MetagenomeList{"m2", "m1", "m3"}, rs.Metagenomes())
	assert.Equal(t, 3, rs.NumMetagenomes())

	rs = randomResults(3000)
	list := rs.Metagenomes()
	seen := make(map[string]bool)
	for _, m := range list {
		require.False(t, seen[m], "duplicated metagenome %s", m)
		seen[m] = true
	}
	for _, r := range rs {
		require.True(t, seen[r.Metagenome], r.Metagenome)
	}
	assert.Equal(t, len(list), rs.NumMetagenomes())
}

func TestEmptyResults(t *testing.T) {
	var rs Results
	assert.Equal(t, 0, rs.NumSearchGenomes())
	assert.Equal(t, 0, rs.NumMetagenomes())
	assert.Empty(t, rs.Groups())
	assert.Empty(t, rs.Metagenomes())
	assert.Empty(t, rs.Filter(0.5))
	rs.Sort()

	median, p90 := rs.ContainmentQuantiles()
	assert.Equal(t, 0.0, median)
	assert.Equal(t, 0.0, p90)
}

func TestContainmentQuantiles(t *testing.T) {
	rs := newResults(row("g1", "m1", 0.5), row("g1", "m2", 0.5), row("g2", "m1", 0.5))
	median, p90 := rs.ContainmentQuantiles()
	assert.InDelta(t, 0.5, median, 1e-9)
	assert.InDelta(t, 0.5, p90, 1e-9)
}

func TestHashCollision(t *testing.T) {
	defer func(f func(string) uint64) { hashKey = f }(hashKey)
	hashKey = func(string) uint64 { return 42 }

	rs := newResults(
		row("g1", "m1", 0.9),
		row("g2", "m2", 0.8),
		row("g1", "m2", 0.7),
		row("g3", "m1", 0.6),
	)
	assert.Equal(t, 3, rs.NumSearchGenomes())
	assert.Equal(t, 2, rs.NumMetagenomes())
	assert.Equal(t, MetagenomeList{"m1", "m2"}, rs.Metagenomes())

	groups := rs.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, &MatchGroup{SearchGenome: "g1", Metagenomes: []string{"m1", "m2"}}, groups[0])
	assert.Equal(t, &MatchGroup{SearchGenome: "g2", Metagenomes: []string{"m2"}}, groups[1])
	assert.Equal(t, &MatchGroup{SearchGenome: "g3", Metagenomes: []string{"m1"}}, groups[2])
}
