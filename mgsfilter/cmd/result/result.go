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

// Package result parses, filters, sorts, groups and writes MAGsearch
// containment results.
package result

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NumFields is the number of columns of a MAGsearch result line.
const NumFields = 3

// Result is one containment comparison between a search genome and a metagenome.
type Result struct {
	SearchGenome string
	Metagenome   string
	Containment  float64

	idx int // load order
}

// ErrInvalidColumns means a line does not have exactly NumFields columns.
var ErrInvalidColumns = errors.New("invalid number of columns")

// ErrInvalidContainment means the containment column is not a number.
var ErrInvalidContainment = errors.New("invalid containment")

// ErrUnterminatedQuote means a quoted field is not closed before the end of line.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// ThresholdError is returned for a containment threshold outside [0, 1].
type ThresholdError struct {
	Value float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("containment threshold is provided (%v), but is not between 0 (keep all results) and 1 (keep only results with 100%% containment of at least one genome)", e.Value)
}

// CheckThreshold returns a *ThresholdError unless t is in [0, 1].
func CheckThreshold(t float64) error {
	if t >= 0 && t <= 1 { // false for NaN
		return nil
	}
	return &ThresholdError{Value: t}
}

// SplitQuoted splits a line by sep. A field starting with quote runs until
// the closing quote, may contain sep, and a doubled quote inside it stands
// for one literal quote.
func SplitQuoted(line string, sep, quote byte) ([]string, error) {
	fields := make([]string, 0, NumFields)
	var buf strings.Builder
	var quoted bool
	start := true
	n := len(line)
	var c byte
	for i := 0; i < n; i++ {
		c = line[i]
		if quoted {
			if c != quote {
				buf.WriteByte(c)
				continue
			}
			if i+1 < n && line[i+1] == quote {
				buf.WriteByte(quote)
				i++
				continue
			}
			quoted = false
			continue
		}

		switch {
		case c == sep:
			fields = append(fields, buf.String())
			buf.Reset()
			start = true
		case c == quote && start:
			quoted = true
			start = false
		default:
			buf.WriteByte(c)
			start = false
		}
	}
	if quoted {
		return nil, ErrUnterminatedQuote
	}
	fields = append(fields, buf.String())
	return fields, nil
}

// NormalizeSearchGenome strips one layer of enclosing single quotes.
func NormalizeSearchGenome(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

var reMetagenome = regexp.MustCompile(`^.*/(.*)\.sig.*$`)

// NormalizeMetagenome turns a signature file path like /path/to/SRR123.sig.gz
// into SRR123. Other values are returned unchanged.
func NormalizeMetagenome(s string) string {
	m := reMetagenome.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[1]
}

// ParseResult creates a Result from the columns of one line.
func ParseResult(fields []string) (*Result, error) {
	if len(fields) != NumFields {
		return nil, errors.Wrapf(ErrInvalidColumns, "%d found, %d expected", len(fields), NumFields)
	}

	c, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidContainment, "%q", fields[2])
	}

	return &Result{
		SearchGenome: NormalizeSearchGenome(fields[0]),
		Metagenome:   NormalizeMetagenome(fields[1]),
		Containment:  c,
	}, nil
}

// FormatContainment prints a containment value in its shortest form.
func FormatContainment(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
