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
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Summary holds the counts reported for one run.
type Summary struct {
	Threshold float64 `yaml:"containment-threshold"`

	Matches       int `yaml:"matches"`
	SearchGenomes int `yaml:"search-genomes"`

	MatchesPassed       int `yaml:"matches-passed"`
	SearchGenomesPassed int `yaml:"search-genomes-passed"`
	MetagenomesPassed   int `yaml:"metagenomes-passed"`
}

// NewSummary counts matches before and after filtering.
func NewSummary(threshold float64, all, passed Results) *Summary {
	return &Summary{
		Threshold: threshold,

		Matches:       len(all),
		SearchGenomes: all.NumSearchGenomes(),

		MatchesPassed:       len(passed),
		SearchGenomesPassed: passed.NumSearchGenomes(),
		MetagenomesPassed:   passed.NumMetagenomes(),
	}
}

// Percent returns the threshold as a percentage, e.g., "50" for 0.5.
func (s *Summary) Percent() string {
	p := math.Round(s.Threshold*100*1e6) / 1e6
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Write prints the three summary lines.
func (s *Summary) Write(w io.Writer) error {
	p := s.Percent()
	_, err := fmt.Fprintf(w, "# Search genomes with metagenome matches: %d\n"+
		"# Search genomes with metagenome matches above containment threshold (%s%%): %d\n"+
		"# Metagenomes with >= %s%% containment of at least one search genome: %d\n",
		s.SearchGenomes,
		p, s.SearchGenomesPassed,
		p, s.MetagenomesPassed)
	return err
}

// WriteYAML dumps the summary in YAML.
func (s *Summary) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
