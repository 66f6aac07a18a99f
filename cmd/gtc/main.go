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

// Command gtc is a thin wrapper around package encdesc and package hcr:
// encode/decode only, with a minimal line/FASTQ reader good enough to
// feed their StringIterator/RecordIterator inputs. It is not a
// general-purpose FASTA/FASTQ toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gtc:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gtc",
		Short: "Huffman-compressed read and description encoding for genome tools",
	}

	root.AddCommand(encdescCmd())
	root.AddCommand(hcrCmd())
	return root
}
