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
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arguments of mgsfilter run in a child process, separated by newlines
const envRootArgs = "MGSFILTER_ROOT_ARGS"

func TestExitStatus(t *testing.T) {
	if args := os.Getenv(envRootArgs); args != "" {
		RootCmd.SetArgs(strings.Split(args, "\n"))
		Execute()
		os.Exit(0)
	}

	dir := t.TempDir()
	input := writeTestFile(t, dir, "magsearch.csv", exampleInput)
	outFile := filepath.Join(dir, "out", "filtered.csv")
	listFile := filepath.Join(dir, "out", "metagenomes.csv")

	tests := []struct {
		name   string
		args   []string
		status int
		output bool
	}{
		{"success", []string{input, "--output-csv", outFile, "--metagenome-list", listFile}, 0, true},
		{"threshold above 1", []string{input, "--output-csv", outFile, "--metagenome-list", listFile, "--f-containment-threshold", "1.5"}, 255, false},
		{"negative threshold", []string{input, "--output-csv", outFile, "--f-containment-threshold=-0.1"}, 255, false},
		{"invalid threshold and missing input", []string{filepath.Join(dir, "nope.csv"), "--output-csv", outFile, "--f-containment-threshold", "2"}, 255, false},
		{"missing input", []string{filepath.Join(dir, "nope.csv"), "--output-csv", outFile}, 1, false},
		{"missing file in list", []string{"-i", writeTestFile(t, dir, "list.txt", filepath.Join(dir, "nope.csv")+"\n"), "--output-csv", outFile}, 1, false},
		{"malformed input", []string{writeTestFile(t, dir, "bad.csv", exampleInput+"'g3',/d/c.sig,abc\n"), "--output-csv", outFile}, 1, false},
		{"output is input", []string{input, "--output-csv", input}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, os.RemoveAll(filepath.Join(dir, "out")))

			cmd := exec.Command(os.Args[0], "-test.run=^TestExitStatus$")
			cmd.Env = append(os.Environ(), envRootArgs+"="+strings.Join(append(tt.args, "-q"), "\n"))
			var stdout bytes.Buffer
			cmd.Stdout = &stdout
			err := cmd.Run()

			if tt.status == 0 {
				require.NoError(t, err)
			} else {
				var e *exec.ExitError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.status, e.ExitCode())
			}

			for _, file := range []string{outFile, listFile} {
				_, err = os.Stat(file)
				assert.Equal(t, tt.output, err == nil, file)
			}
			if tt.output {
				assert.Contains(t, stdout.String(), "# Search genomes with metagenome matches: 2\n")
				assert.Equal(t, []string{"metagenome", "a", "b"}, readLines(t, listFile))
			}
		})
	}
}

func newInputCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "mgsfilter"}
	cmd.Flags().StringP("infile-list", "i", "", "")
	cmd.Flags().StringP("in-dir", "I", "", "")
	cmd.Flags().StringP("file-regexp", "r", `\.csv(\.gz)?$`, "")
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

func TestGetInputFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.csv", "")
	b := writeTestFile(t, dir, "b.csv", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chunks", "sub"), 0755))
	c1 := writeTestFile(t, dir, filepath.Join("chunks", "sub", "c1.csv.gz"), "")
	c0 := writeTestFile(t, dir, filepath.Join("chunks", "c0.csv"), "")
	writeTestFile(t, dir, filepath.Join("chunks", "c2.txt"), "")
	list := writeTestFile(t, dir, "list.txt", b+"\n\n")
	opt := testOptions()

	tests := []struct {
		name  string
		args  []string
		flags []string
		files []string
	}{
		{"stdin", nil, nil, []string{"-"}},
		{"args", []string{a, b}, nil, []string{a, b}},
		{"list", nil, []string{"-i", list}, []string{b}},
		{"args and list", []string{a}, []string{"-i", list}, []string{a, b}},
		{"dir", nil, []string{"-I", filepath.Join(dir, "chunks")}, []string{c0, c1}},
		{"args and dir", []string{a}, []string{"-I", filepath.Join(dir, "chunks")}, []string{a, c0, c1}},
		{"dir with pattern", nil, []string{"-I", filepath.Join(dir, "chunks"), "-r", `\.txt$`}, []string{filepath.Join(dir, "chunks", "c2.txt")}},
		{"dir without matches", []string{a}, []string{"-I", filepath.Join(dir, "chunks"), "-r", `\.tsv$`}, []string{a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := getInputFiles(newInputCmd(t, tt.flags...), tt.args, opt)
			require.NoError(t, err)
			assert.Equal(t, tt.files, files)
		})
	}

	errTests := []struct {
		name  string
		args  []string
		flags []string
	}{
		{"missing arg", []string{a, filepath.Join(dir, "nope.csv")}, nil},
		{"missing list", nil, []string{"-i", filepath.Join(dir, "nope.txt")}},
		{"missing file in list", nil, []string{"-i", writeTestFile(t, dir, "bad-list.txt", filepath.Join(dir, "nope.csv")+"\n")}},
		{"dir is a file", nil, []string{"-I", a}},
		{"missing dir", nil, []string{"-I", filepath.Join(dir, "nope")}},
		{"invalid pattern", nil, []string{"-I", dir, "-r", `(`}},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getInputFiles(newInputCmd(t, tt.flags...), tt.args, opt)
			assert.Error(t, err)
		})
	}
}

func TestLoadResultsStopsReading(t *testing.T) {
	var buf strings.Builder
	buf.WriteString("search_genome,metagenome,containment\n'g1',/d/a.sig,abc\n")
	for i := 0; i < 20000; i++ {
		buf.WriteString("'g2',/d/b.sig,0.5\n")
	}
	file := writeTestFile(t, t.TempDir(), "magsearch.csv", buf.String())

	n := runtime.NumGoroutine()
	_, err := loadResults([]string{file}, 4, 1, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record #2")

	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= n },
		5*time.Second, 10*time.Millisecond)
}
