package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/huffpack"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Describe a compressed file from its header",
	Long: `Read the frequency table at the start of a compressed file and show
what it implies: original size, distinct symbols, payload size, the
Shannon entropy of the data and how close the Huffman code gets to it.

Only the header is read.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	outputJSON  bool
	showSymbols bool
)

func init() {
	inspectCmd.Flags().BoolVar(&outputJSON, "json", false, "output result as JSON")
	inspectCmd.Flags().BoolVar(&showSymbols, "symbols", false, "list every symbol with its count and code")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	info, err := cli.compressor.Inspect(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if outputJSON {
		return printInfoJSON(info)
	}
	printInfoText(info)
	return nil
}

func printInfoText(info *huffpack.Info) {
	fmt.Printf("File:         %s\n", info.Path)
	fmt.Printf("Original:     %s\n", formatBytes(int64(info.Original)))
	fmt.Printf("Compressed:   %s\n", formatBytes(info.Size))
	fmt.Printf("Symbols:      %d\n", info.Symbols)
	fmt.Printf("Payload:      %d bits, %d in last byte\n", info.Bits, lastByteBits(info.LastBits))
	fmt.Printf("Longest code: %d bits\n", info.MaxCodeLength)
	fmt.Printf("Entropy:      %.4f bits/byte\n", info.Entropy)
	fmt.Printf("Average code: %.4f bits/byte (%.1f%% efficient)\n",
		info.AverageCodeLength(), info.Efficiency()*100)

	if !showSymbols {
		return
	}
	fmt.Println()
	fmt.Printf("%-8s %12s  %s\n", "Symbol", "Count", "Code")
	for _, s := range info.Table {
		fmt.Printf("%-8s %12d  %s\n", s.Label(), s.Count, s.Code)
	}
}

func printInfoJSON(info *huffpack.Info) error {
	out := *info
	if !showSymbols {
		out.Table = nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// lastByteBits maps the stored 0 back to a full byte.
func lastByteBits(n uint8) int {
	if n == 0 {
		return 8
	}
	return int(n)
}
