package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/huffpack/internal/codec"
	"github.com/discochess/huffpack/internal/codec/gzipcodec"
	"github.com/discochess/huffpack/internal/codec/huffcodec"
	"github.com/discochess/huffpack/internal/codec/noopcodec"
	"github.com/discochess/huffpack/internal/codec/zstdcodec"
)

var compareCmd = &cobra.Command{
	Use:   "compare <file>",
	Short: "Compare Huffman coding against general-purpose compressors",
	Long: `Compress a file in memory with each available codec, check that it
decompresses back to the original, and report the sizes.

Codecs: huffman, gzip, zstd and none (the raw size).`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

var compareMarkdown bool

func init() {
	compareCmd.Flags().BoolVar(&compareMarkdown, "markdown", false, "output a Markdown table")
	rootCmd.AddCommand(compareCmd)
}

// codecResult is one row of the comparison.
type codecResult struct {
	Name   string
	Size   int64
	Ratio  float64
	Encode time.Duration
	Decode time.Duration
	Err    error
}

func runCompare(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	path := args[0]

	rc, err := cli.compressor.Store().Open(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("opening %q: %w", path, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}

	codecs := []codec.Codec{
		huffcodec.New(),
		gzipcodec.New(),
		zstdcodec.New(),
		noopcodec.New(),
	}
	results := make([]codecResult, 0, len(codecs))
	for _, c := range codecs {
		results = append(results, measure(c, data))
	}

	if compareMarkdown {
		printCompareMarkdown(path, int64(len(data)), results)
	} else {
		printCompareText(path, int64(len(data)), results)
	}
	return nil
}

// measure compresses data with c and checks the round trip.
func measure(c codec.Codec, data []byte) codecResult {
	res := codecResult{Name: c.Name()}

	var buf bytes.Buffer
	start := time.Now()
	w, err := c.Writer(&buf)
	if err == nil {
		_, err = w.Write(data)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	res.Encode = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Size = int64(buf.Len())
	if len(data) > 0 {
		res.Ratio = float64(res.Size) / float64(len(data))
	}

	start = time.Now()
	r, err := c.Reader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		res.Err = err
		return res
	}
	got, err := io.ReadAll(r)
	r.Close()
	res.Decode = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	if !bytes.Equal(got, data) {
		res.Err = fmt.Errorf("round trip mismatch")
	}
	return res
}

func printCompareText(path string, size int64, results []codecResult) {
	fmt.Printf("File: %s (%s)\n\n", path, formatBytes(size))
	fmt.Printf("%-8s %12s %8s %12s %12s\n", "Codec", "Size", "Ratio", "Encode", "Decode")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-8s error: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("%-8s %12s %7.1f%% %12s %12s\n",
			r.Name, formatBytes(r.Size), r.Ratio*100,
			r.Encode.Round(time.Microsecond), r.Decode.Round(time.Microsecond))
	}
}

func printCompareMarkdown(path string, size int64, results []codecResult) {
	fmt.Printf("## %s (%s)\n\n", path, formatBytes(size))
	fmt.Println("| Codec | Size | Ratio | Encode | Decode |")
	fmt.Println("|-------|------|-------|--------|--------|")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("| %s | error: %v | | | |\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("| %s | %d | %.1f%% | %s | %s |\n",
			r.Name, r.Size, r.Ratio*100,
			r.Encode.Round(time.Microsecond), r.Decode.Round(time.Microsecond))
	}
}
