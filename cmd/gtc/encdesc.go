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

	"github.com/genomepack/gtc/encdesc"
)

func encdescCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encdesc",
		Short: "Encode or decode FASTA/FASTQ description lines",
	}

	cmd.AddCommand(encdescEncodeCmd())
	cmd.AddCommand(encdescDecodeCmd())
	return cmd
}

func encdescEncodeCmd() *cobra.Command {
	var rate uint64
	var pageSampling bool

	cmd := &cobra.Command{
		Use:   "encode <descriptions.txt> <out.ede>",
		Short: "Analyze and encode one description line per input line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(args[0])

			if err != nil {
				return errors.Wrap(err, "read descriptions failed")
			}

			ed, err := encdesc.Analyze(lines)

			if err != nil {
				return errors.Wrap(err, "analyze failed")
			}

			out, err := os.Create(args[1])

			if err != nil {
				return err
			}

			defer out.Close()

			enc := encdesc.NewEncoder(rate, pageSampling)

			if err := enc.Encode(ed, lines, out); err != nil {
				return errors.Wrap(err, "encode failed")
			}

			info, err := out.Stat()

			if err != nil {
				return err
			}

			fmt.Printf("encoded %d descriptions into %s\n", ed.NumOfDescriptions(), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&rate, "sampling-rate", 0, "descriptions per random-access sample (0 = only the first)")
	cmd.Flags().BoolVar(&pageSampling, "page-sampling", false, "sample on page boundaries instead of a fixed description rate")
	return cmd
}

func encdescDecodeCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "decode <in.ede>",
		Short: "Decode a single description line by index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])

			if err != nil {
				return err
			}

			defer in.Close()

			dec, err := encdesc.Open(in)

			if err != nil {
				return errors.Wrap(err, "open failed")
			}

			desc, err := dec.Decode(index)

			if err != nil {
				return errors.Wrap(err, "decode failed")
			}

			fmt.Println(desc)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "description index to decode")
	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}
