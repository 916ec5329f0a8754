package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/huffpack"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>...",
	Short: "Check that compressed files decode cleanly",
	Long: `Fully decode each file, discarding the output, and check:
- The header is complete and well formed
- The payload length matches what the header implies
- Every payload bit is consumed by a complete code
- The decoded bytes have exactly the frequencies in the header

Files are checked in parallel; results are printed in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

var verifyJobs int

func init() {
	verifyCmd.Flags().IntVarP(&verifyJobs, "jobs", "j", runtime.GOMAXPROCS(0), "files to verify at once")
	rootCmd.AddCommand(verifyCmd)
}

type verifyResult struct {
	info *huffpack.Info
	err  error
}

func runVerify(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if verbose {
		fmt.Printf("Verifying %d files...\n", len(args))
	}

	results := make([]verifyResult, len(args))
	var g errgroup.Group
	g.SetLimit(max(verifyJobs, 1))
	for i, path := range args {
		g.Go(func() error {
			info, err := cli.compressor.Verify(cmd.Context(), path)
			results[i] = verifyResult{info: info, err: err}
			return nil
		})
	}
	g.Wait()

	var errCount int
	for i, r := range results {
		if r.err != nil {
			fmt.Printf("  ERROR: %v\n", r.err)
			errCount++
			continue
		}
		fmt.Printf("  OK: %s (%s -> %s)\n", args[i], formatBytes(r.info.Size), formatBytes(int64(r.info.Original)))
	}

	if errCount > 0 {
		return fmt.Errorf("%d of %d files failed verification", errCount, len(args))
	}
	return nil
}
