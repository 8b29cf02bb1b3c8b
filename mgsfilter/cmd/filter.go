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
	"io"

	"github.com/dustin/go-humanize"
	"github.com/magsearch-tools/mgsfilter/mgsfilter/cmd/result"
)

type filterOptions struct {
	Files []string

	Threshold float64

	OutFile            string
	GroupsFile         string
	MetagenomeListFile string
	SummaryFile        string

	NoHeaderRow bool
	ChunkSize   int
}

func (fopt *filterOptions) outFiles() []string {
	files := []string{fopt.OutFile}
	for _, file := range []string{fopt.GroupsFile, fopt.MetagenomeListFile, fopt.SummaryFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// runFilter loads results, prints the summary lines to summaryOut,
// and writes all output files. Nothing is written if the threshold is
// invalid or any input fails to parse.
func runFilter(opt *Options, fopt *filterOptions, summaryOut io.Writer) error {
	if err := result.CheckThreshold(fopt.Threshold); err != nil {
		return err
	}

	if opt.Verbose || opt.Log2File {
		log.Info("loading results ...")
	}
	rs, err := loadResults(fopt.Files, opt.NumCPUs, fopt.ChunkSize, !fopt.NoHeaderRow)
	if err != nil {
		return err
	}

	passed := rs.Filter(fopt.Threshold)
	summary := result.NewSummary(fopt.Threshold, rs, passed)
	if opt.Verbose || opt.Log2File {
		log.Infof("  %s matches of %s search genomes loaded",
			humanize.Comma(int64(summary.Matches)), humanize.Comma(int64(summary.SearchGenomes)))
		log.Infof("  %s matches passed the containment threshold", humanize.Comma(int64(summary.MatchesPassed)))
	}
	if err = summary.Write(summaryOut); err != nil {
		return err
	}

	passed.Sort()
	if (opt.Verbose || opt.Log2File) && len(passed) > 0 {
		median, p90 := passed.ContainmentQuantiles()
		log.Infof("  containment of passed matches: max %.4f, median %.4f, 90th percentile %.4f",
			passed[0].Containment, median, p90)
	}

	if opt.Verbose || opt.Log2File {
		log.Info("writing results ...")
	}
	err = writeTable(fopt.OutFile, opt.CompressionLevel, func(w io.Writer) error {
		return result.WriteTable(w, passed)
	})
	if err != nil {
		return err
	}

	if fopt.GroupsFile != "" {
		groups := passed.Groups()
		err = writeReport(fopt.GroupsFile, func(w io.Writer) error {
			return result.WriteGroups(w, groups)
		})
		if err != nil {
			return err
		}
		if opt.Verbose || opt.Log2File {
			log.Infof("  matched metagenomes of %d search genomes saved to %s", len(groups), fopt.GroupsFile)
		}
	}

	if fopt.MetagenomeListFile != "" {
		list := passed.Metagenomes()
		err = writeReport(fopt.MetagenomeListFile, func(w io.Writer) error {
			return result.WriteMetagenomeList(w, list)
		})
		if err != nil {
			return err
		}
		if opt.Verbose || opt.Log2File {
			log.Infof("  %d metagenomes saved to %s", len(list), fopt.MetagenomeListFile)
		}
	}

	if fopt.SummaryFile != "" {
		err = writeReport(fopt.SummaryFile, summary.WriteYAML)
		if err != nil {
			return err
		}
	}

	return nil
}
