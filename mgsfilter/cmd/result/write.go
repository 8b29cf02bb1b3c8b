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
	"encoding/csv"
	"io"
	"strings"
)

// Headers of output files.
var (
	TableHeader          = []string{"search_genome", "metagenome", "containment"}
	GroupsHeader         = []string{"search_genome", "matched_metagenomes"}
	MetagenomeListHeader = []string{"metagenome"}
)

func writeRecords(w io.Writer, comma rune, header []string, n int, record func(i int) []string) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes results as CSV with a header row.
func WriteTable(w io.Writer, rs Results) error {
	items := make([]string, NumFields)
	return writeRecords(w, ',', TableHeader, len(rs), func(i int) []string {
		items[0] = rs[i].SearchGenome
		items[1] = rs[i].Metagenome
		items[2] = FormatContainment(rs[i].Containment)
		return items
	})
}

// WriteGroups writes match groups as TSV, with metagenomes joined by commas.
func WriteGroups(w io.Writer, groups []*MatchGroup) error {
	items := make([]string, 2)
	return writeRecords(w, '\t', GroupsHeader, len(groups), func(i int) []string {
		items[0] = groups[i].SearchGenome
		items[1] = strings.Join(groups[i].Metagenomes, ",")
		return items
	})
}

// WriteMetagenomeList writes one metagenome per line after a header row.
func WriteMetagenomeList(w io.Writer, list MetagenomeList) error {
	items := make([]string, 1)
	return writeRecords(w, ',', MetagenomeListHeader, len(list), func(i int) []string {
		items[0] = list[i]
		return items
	})
}
