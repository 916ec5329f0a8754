// Package main provides the huffpack CLI tool for compressing and
// decompressing files with static Huffman coding.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := commandFor(os.Args[1:]).Execute()
	if cerr := cli.shutdown(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
