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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// BufferSize is size of buffer
var BufferSize = 65536

func makeParentDir(file string) error {
	dir := filepath.Dir(file)
	fi, err := os.Stat(dir)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("can not write file into a non-directory path: %s", dir)
	}
	if os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("fail to create directory %s: %s", dir, err)
		}
	}
	return nil
}

func outStream(file string, gzipped bool, level int) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	if isStdout(file) {
		w = os.Stdout
	} else {
		err := makeParentDir(file)
		if err != nil {
			return nil, nil, nil, err
		}

		w, err = os.Create(file)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fail to write %s: %s", file, err)
		}
	}

	if gzipped {
		gw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fail to write %s: %s", file, err)
		}
		return bufio.NewWriterSize(gw, BufferSize), gw, w, nil
	}
	return bufio.NewWriterSize(w, BufferSize), nil, w, nil
}

// writeTable writes the main output with outStream, gzipped if the file
// name ends with .gz.
func writeTable(file string, level int, write func(io.Writer) error) (err error) {
	outfh, gw, w, err := outStream(file, strings.HasSuffix(strings.ToLower(file), ".gz"), level)
	if err != nil {
		return err
	}
	defer func() {
		if _err := outfh.Flush(); _err != nil && err == nil {
			err = errors.Wrap(_err, file)
		}
		if gw != nil {
			if _err := gw.Close(); _err != nil && err == nil {
				err = errors.Wrap(_err, file)
			}
		}
		if isStdout(file) {
			return
		}
		if _err := w.Close(); _err != nil && err == nil {
			err = errors.Wrap(_err, file)
		}
	}()

	return errors.Wrap(write(outfh), file)
}

// writeReport writes an optional report with xopen, which also picks
// gzip by the suffix.
func writeReport(file string, write func(io.Writer) error) (err error) {
	if !isStdout(file) {
		if err = makeParentDir(file); err != nil {
			return err
		}
	}
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return errors.Wrap(err, file)
	}
	defer func() {
		if _err := outfh.Close(); _err != nil && err == nil {
			err = errors.Wrap(_err, file)
		}
	}()

	return errors.Wrap(write(outfh), file)
}

func detectStdin() bool {
	// http://stackoverflow.com/a/26567513
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
