/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/genomepack/gtc/alphabet"
	"github.com/genomepack/gtc/hcr"
	"github.com/genomepack/gtc/iterator"
)

func hcrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hcr",
		Short: "Encode or decode FASTQ reads as Huffman-compressed reads",
	}

	cmd.AddCommand(hcrEncodeCmd())
	cmd.AddCommand(hcrDecodeCmd())
	return cmd
}

func hcrEncodeCmd() *cobra.Command {
	var rate uint64
	var pageSampling bool
	var qmin, qmax string

	cmd := &cobra.Command{
		Use:   "encode <out.hcr> <reads1.fastq> [reads2.fastq...]",
		Short: "Analyze and encode one or more FASTQ files as a single hcr stream",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([][]iterator.Record, 0, len(args)-1)

			for _, path := range args[1:] {
				records, err := readFastq(path)

				if err != nil {
					return errors.Wrapf(err, "read %s failed", path)
				}

				files = append(files, records)
			}

			dna := alphabet.NewDNA()

			var qminClamp, qmaxClamp *byte

			if qmin != "" {
				b := qmin[0]
				qminClamp = &b
			}

			if qmax != "" {
				b := qmax[0]
				qmaxClamp = &b
			}

			m, err := hcr.Analyze(files, dna, qminClamp, qmaxClamp)

			if err != nil {
				return errors.Wrap(err, "analyze failed")
			}

			out, err := os.Create(args[0])

			if err != nil {
				return err
			}

			defer out.Close()

			enc := hcr.NewEncoder(rate, pageSampling)

			if err := enc.Encode(m, files, out); err != nil {
				return errors.Wrap(err, "encode failed")
			}

			info, err := out.Stat()

			if err != nil {
				return err
			}

			fmt.Printf("encoded %d reads into %s\n", m.NumOfReads(), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&rate, "sampling-rate", 0, "reads per random-access sample (0 = only the first)")
	cmd.Flags().BoolVar(&pageSampling, "page-sampling", false, "sample on page boundaries instead of a fixed read rate")
	cmd.Flags().StringVar(&qmin, "qmin", "", "clamp quality values at or below this character up to it")
	cmd.Flags().StringVar(&qmax, "qmax", "", "clamp quality values at or above this character down to it")
	return cmd
}

func hcrDecodeCmd() *cobra.Command {
	var start, end int

	cmd := &cobra.Command{
		Use:   "decode <in.hcr>",
		Short: "Decode a range of reads as FASTQ records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])

			if err != nil {
				return err
			}

			defer in.Close()

			dna := alphabet.NewDNA()
			dec, err := hcr.Open(in, dna)

			if err != nil {
				return errors.Wrap(err, "open failed")
			}

			if end == 0 {
				end = int(dec.NumOfReads()) - 1
			}

			reads, err := dec.DecodeRange(start, end)

			if err != nil {
				return errors.Wrap(err, "decode failed")
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			for i, r := range reads {
				fmt.Fprintf(w, "@read%d\n%s\n+\n%s\n", start+i, r.Bases, r.Qualities)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "first read index to decode")
	cmd.Flags().IntVar(&end, "end", 0, "last read index to decode (0 = last read in the stream)")
	return cmd
}

// readFastq parses path as a minimal 4-line-per-record FASTQ file: a
// '@'-prefixed description, the bases, a '+' separator line and the
// qualities. It is deliberately not a validating parser: malformed
// records beyond line count are passed through as-is.
func readFastq(path string) ([]iterator.Record, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	var records []iterator.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if !scanner.Scan() {
			break
		}

		header := scanner.Text()

		if len(header) == 0 {
			continue
		}

		if header[0] != '@' {
			return nil, errors.Errorf("%s: expected '@' record header, got %q", path, header)
		}

		if !scanner.Scan() {
			return nil, errors.Errorf("%s: truncated record after header %q", path, header)
		}

		bases := scanner.Text()

		if !scanner.Scan() {
			return nil, errors.Errorf("%s: missing '+' separator for record %q", path, header)
		}

		if !scanner.Scan() {
			return nil, errors.Errorf("%s: missing qualities for record %q", path, header)
		}

		qualities := scanner.Text()
		records = append(records, iterator.Record{Bases: bases, Qualities: qualities})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
