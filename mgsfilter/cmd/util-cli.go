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
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/cliutil"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("mgsfilter")

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func isStdin(file string) bool {
	return file == "-"
}

func isStdout(file string) bool {
	return file == "-"
}

// getFileListFromArgsAndFile returns files from arguments and the file list
// given by flag. "-" stands for stdin when both are empty.
func getFileListFromArgsAndFile(cmd *cobra.Command, args []string, checkFileFromArgs bool, flag string, checkFileFromFile bool) ([]string, error) {
	infileList := getFlagString(cmd, flag)
	files := cliutil.GetFileList(args, false)
	if checkFileFromArgs {
		for _, file := range files {
			if isStdin(file) {
				continue
			}
			if _, err := os.Stat(file); err != nil {
				return nil, errors.Wrap(err, file)
			}
		}
	}
	if infileList != "" {
		_files, err := cliutil.GetFileListFromFile(infileList, checkFileFromFile)
		if err != nil {
			return nil, err
		}
		if len(_files) == 0 {
			log.Warningf("no files found in file list: %s", infileList)
			return files, nil
		}

		if len(files) == 1 && isStdin(files[0]) {
			return _files, nil
		}
		files = append(files, _files...)
	}
	return files, nil
}

// getInputFiles collects input files from arguments, -i/--infile-list,
// and files matching -r/--file-regexp in -I/--in-dir.
func getInputFiles(cmd *cobra.Command, args []string, opt *Options) ([]string, error) {
	for i, arg := range args {
		args[i] = expandPath(arg)
	}
	files, err := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
	if err != nil {
		return nil, err
	}

	inDir := expandPath(getFlagString(cmd, "in-dir"))
	if inDir == "" {
		return files, nil
	}

	isDir, err := pathutil.IsDir(inDir)
	if err != nil {
		return nil, errors.Wrap(err, inDir)
	}
	if !isDir {
		return nil, fmt.Errorf("value of -I/--in-dir should be a directory: %s", inDir)
	}

	reFileStr := getFlagString(cmd, "file-regexp")
	reFile, err := regexp.Compile(reFileStr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse regular expression for matching file: %s", reFileStr)
	}

	_files, err := getFileListFromDir(inDir, reFile, opt.NumCPUs)
	if err != nil {
		return nil, errors.Wrapf(err, "err on walking dir: %s", inDir)
	}
	if len(_files) == 0 {
		log.Warningf("  no files matching regular expression: %s", reFileStr)
		return files, nil
	}
	sort.Strings(_files)

	if len(files) == 1 && isStdin(files[0]) {
		return _files, nil
	}
	return append(files, _files...), nil
}
