package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags.
	verbose      bool
	metricsFile  string
	cacheSize    int
	remotePrefix string

	// Root command flags.
	compressMode   bool
	decompressMode bool
)

var (
	rootCmd = newCodecCmd()

	// codecCmd is rootCmd without subcommands. Invocations that name -c or
	// -d run on it, so an input called "verify" or "help" is a path and not
	// a command.
	codecCmd = newCodecCmd()
)

func newCodecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "huffpack (-c|-d) <input> <output>",
		Short: "Compress and decompress files with static Huffman coding",
		Long: `Huffpack compresses a file with a Huffman code built from that file's own
byte frequencies, and restores the original bytes from the result.

Inputs and outputs may be local paths, s3://bucket/key or gs://bucket/key.

Examples:
  # Compress a file
  huffpack -c notes.txt notes.huf

  # Restore it
  huffpack -d notes.huf notes.txt

  # Show the code table stored in a compressed file
  huffpack inspect --symbols notes.huf

  # Serve compression over HTTP
  huffpack serve --addr :5000 --dir uploads`,
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return cli.setup() },
		RunE:              runRoot,
	}

	addGlobalFlags(cmd.PersistentFlags())
	cmd.Flags().BoolVarP(&compressMode, "compress", "c", false, "compress <input> into <output>")
	cmd.Flags().BoolVarP(&decompressMode, "decompress", "d", false, "decompress <input> into <output>")
	cmd.MarkFlagsMutuallyExclusive("compress", "decompress")
	cmd.MarkFlagsOneRequired("compress", "decompress")
	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	fs.StringVar(&metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	fs.IntVar(&cacheSize, "cache-size", 0, "objects cached per remote bucket (0 for default, -1 to disable)")
	fs.StringVar(&remotePrefix, "remote-prefix", "", "key prefix for s3:// and gs:// objects")
}

// commandFor returns the command that should parse args. Any compress or
// decompress flag before "--" selects codecCmd.
func commandFor(args []string) *cobra.Command {
	for _, a := range args {
		if a == "--" {
			break
		}
		if isCodecFlag(a) {
			return codecCmd
		}
	}
	return rootCmd
}

func isCodecFlag(arg string) bool {
	switch {
	case arg == "--compress", arg == "--decompress",
		strings.HasPrefix(arg, "--compress="), strings.HasPrefix(arg, "--decompress="):
		return true
	case strings.HasPrefix(arg, "--"), len(arg) < 2, arg[0] != '-':
		return false
	}
	// Shorthand cluster such as -c or -vd.
	short := arg[1:]
	return strings.Trim(short, "vcd") == "" && strings.ContainsAny(short, "cd")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	src, dst := args[0], args[1]

	ctx := cmd.Context()
	if compressMode {
		rep, err := cli.compressor.Compress(ctx, src, dst)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s: %s -> %s (%s, %d symbols)\n",
			rep.Src, rep.Dst, formatBytes(rep.BytesIn), formatBytes(rep.BytesOut), rep.Change(), rep.Symbols)
		return nil
	}

	rep, err := cli.compressor.Decompress(ctx, src, dst)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s: %s -> %s\n",
		rep.Src, rep.Dst, formatBytes(rep.BytesIn), formatBytes(rep.BytesOut))
	return nil
}
