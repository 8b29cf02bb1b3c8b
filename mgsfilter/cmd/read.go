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

package cmd

import (
	"strings"

	"github.com/magsearch-tools/mgsfilter/mgsfilter/cmd/result"
	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// fields of a line, split in parallel by breader.
type record struct {
	fields []string
	err    error
}

func splitRecord(line string) (interface{}, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" { // ignoring blank line
		return nil, false, nil
	}

	fields, err := result.SplitQuoted(line, ',', '\'')
	return &record{fields: fields, err: err}, true, nil
}

// loadResults reads all input files. The first non-blank line of every
// file is skipped if hasHeader is true.
func loadResults(files []string, threads int, chunkSize int, hasHeader bool) (result.Results, error) {
	rs := make(result.Results, 0, 1024)

	for _, file := range files {
		reader, err := breader.NewBufferedReader(file, threads, chunkSize, splitRecord)
		if err != nil {
			return nil, errors.Wrap(err, file)
		}

		var n int // record number
		var rec *record
		var r *result.Result
		for chunk := range reader.Ch {
			if chunk.Err != nil {
				cancelReader(reader)
				return nil, errors.Wrap(chunk.Err, file)
			}

			for _, data := range chunk.Data {
				rec = data.(*record)
				n++
				if n == 1 && hasHeader {
					continue
				}

				if rec.err != nil {
					cancelReader(reader)
					return nil, errors.Wrapf(rec.err, "%s: record #%d", file, n)
				}

				r, err = result.ParseResult(rec.fields)
				if err != nil {
					cancelReader(reader)
					return nil, errors.Wrapf(err, "%s: record #%d", file, n)
				}
				rs.Append(r)
			}
		}
	}

	return rs, nil
}

// cancelReader stops reading and waits for the parsing goroutines to exit.
func cancelReader(reader *breader.BufferedReader) {
	reader.Cancel()
	for range reader.Ch {
	}
}
