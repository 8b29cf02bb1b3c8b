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
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/magsearch-tools/mgsfilter/mgsfilter/cmd/result"
	"github.com/spf13/cobra"
)

// exit status for an invalid containment threshold, other errors exit with 1.
const exitInvalidThreshold = -1

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mgsfilter [flags] --output-csv <file> <magsearch result file> ...",
	Short: "Filter and summarize MAGsearch containment results",
	Long: fmt.Sprintf(`
    Program: mgsfilter (filtering MAGsearch containment results)
    Version: v%s

mgsfilter cleans up the output of a genome-to-metagenome containment
search (MAGsearch), keeps matches with containment >= a threshold,
and writes them sorted by containment in descending order.

Input format:
  Comma-separated, single-quote-quoted, three columns, the first line
  is a header row:
    1. search genome       quotes are stripped: 'genomeA.fa' -> genomeA.fa
    2. metagenome          signature path is trimmed: /path/to/SRR123.sig.gz -> SRR123
    3. containment         fraction in [0, 1]

Output:
  1. --output-csv               search_genome,metagenome,containment
  2. --matched-metagenomes-tsv  search_genome<TAB>matched_metagenomes (comma-separated)
  3. --metagenome-list          metagenome
  4. --summary-yaml             counts of the run
  Files with the suffix .gz are gzipped, "-" is for stdout.
  Summary lines are printed to stdout, or to stderr if any output is stdout.

Exit status:
  0   success
  255 (-1) invalid containment threshold, nothing written
  1   other errors

`, VERSION),
	Version: VERSION,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		fopt := &filterOptions{
			Threshold: getFlagFloat64(cmd, "f-containment-threshold"),

			OutFile:            expandPath(getFlagString(cmd, "output-csv")),
			GroupsFile:         expandPath(getFlagString(cmd, "matched-metagenomes-tsv")),
			MetagenomeListFile: expandPath(getFlagString(cmd, "metagenome-list")),
			SummaryFile:        expandPath(getFlagString(cmd, "summary-yaml")),

			NoHeaderRow: getFlagBool(cmd, "no-header-row"),
			ChunkSize:   getFlagPositiveInt(cmd, "line-chunk-size"),
		}

		if err := result.CheckThreshold(fopt.Threshold); err != nil {
			log.Error(err)
			log.Error("Exiting.")
			os.Exit(exitInvalidThreshold)
		}

		if fopt.OutFile == "" {
			checkError(fmt.Errorf("flag --output-csv needed"))
		}

		// ---------------------------------------------------------------

		if opt.Verbose || opt.Log2File {
			log.Infof("mgsfilter v%s", VERSION)
			log.Info()

			log.Info("checking input files ...")
		}
		var err error
		fopt.Files, err = getInputFiles(cmd, args, opt)
		checkError(err)
		if opt.Verbose || opt.Log2File {
			if len(fopt.Files) == 1 && isStdin(fopt.Files[0]) {
				log.Info("  no files given, reading from stdin")
			} else {
				log.Infof("  %d input file(s) given", len(fopt.Files))
			}
		}
		if len(fopt.Files) == 1 && isStdin(fopt.Files[0]) && !detectStdin() {
			checkError(fmt.Errorf("stdin not detected"))
		}

		outFiles := fopt.outFiles()
		for _, file := range fopt.Files {
			if isStdin(file) {
				continue
			}
			for _, outFile := range outFiles {
				if !isStdout(outFile) && filepath.Clean(file) == filepath.Clean(outFile) {
					checkError(fmt.Errorf("out file should not be one of the input file: %s", file))
				}
			}
		}

		var summaryOut io.Writer = os.Stdout
		for _, outFile := range outFiles {
			if isStdout(outFile) {
				summaryOut = os.Stderr
				break
			}
		}

		if opt.Verbose || opt.Log2File {
			log.Info()
			log.Infof("-------------------- [main parameters] --------------------")
			log.Infof("minimum containment: %v", fopt.Threshold)
			log.Infof("output table: %s", fopt.OutFile)
			if fopt.GroupsFile != "" {
				log.Infof("matched metagenomes of search genomes: %s", fopt.GroupsFile)
			}
			if fopt.MetagenomeListFile != "" {
				log.Infof("metagenome list: %s", fopt.MetagenomeListFile)
			}
			if fopt.SummaryFile != "" {
				log.Infof("summary: %s", fopt.SummaryFile)
			}
			log.Infof("-------------------- [main parameters] --------------------")
			log.Info()
		}

		checkError(runFilter(opt, fopt, summaryOut))
	},
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 4 {
		defaultThreads = 4
	}

	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of CPUs to use")
	RootCmd.PersistentFlags().BoolP("quiet", "q", false, "do not print any verbose information")
	RootCmd.PersistentFlags().StringP("log", "", "", "log file")
	RootCmd.PersistentFlags().StringP("infile-list", "i", "", "file of input files list (one file per line), if given, they are appended to files from cli arguments")

	RootCmd.Flags().StringP("in-dir", "I", "", `directory containing MAGsearch result files, searched recursively`)
	RootCmd.Flags().StringP("file-regexp", "r", `\.csv(\.gz)?$`, `regular expression for matching result files in -I/--in-dir`)
	RootCmd.Flags().BoolP("no-header-row", "H", false, `the first line of input files is a result rather than a header row`)
	RootCmd.Flags().IntP("line-chunk-size", "", 5000, `number of lines to parse for each thread`)

	RootCmd.Flags().StringP("output-csv", "", "", `out file of filtered and sorted results (required, "-" for stdout, suffix .gz for gzipped out)`)
	RootCmd.Flags().Float64P("f-containment-threshold", "", 0, `fraction containment should be between 0 (keep all results) and 1 (keep only results with 100% containment of at least one genome)`)
	RootCmd.Flags().StringP("matched-metagenomes-tsv", "", "", `out file of search genomes and their comma-separated matched metagenomes`)
	RootCmd.Flags().StringP("metagenome-list", "", "", `out file of unique matched metagenomes`)
	RootCmd.Flags().StringP("summary-yaml", "", "", `out file of summary counts in YAML format`)

	RootCmd.MarkFlagRequired("output-csv")
}
