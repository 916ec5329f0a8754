// Package huffpack compresses and decompresses files with static per-file
// Huffman coding.
//
// Example usage:
//
//	c, err := huffpack.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	report, err := c.Compress(ctx, "notes.txt", "notes.huf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d -> %d bytes\n", report.BytesIn, report.BytesOut)
//
// A compressed file is a 1024-byte table of little-endian uint32 byte
// counts, one byte giving the number of meaningful bits in the last payload
// byte (0 meaning all eight), and the packed code bits.
package huffpack

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/huffpack/internal/format"
	"github.com/discochess/huffpack/internal/freq"
	"github.com/discochess/huffpack/internal/huffman"
	"github.com/discochess/huffpack/internal/stats"
	"github.com/discochess/huffpack/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrInputNotFound indicates the input could not be opened.
	ErrInputNotFound = errors.New("huffpack: input not found")

	// ErrOutputWriteFailed indicates the output could not be created or written.
	ErrOutputWriteFailed = errors.New("huffpack: output write failed")

	// ErrEmptyInput indicates a zero-length input to compress.
	ErrEmptyInput = huffman.ErrEmptyInput

	// ErrCorruptHeader indicates a compressed file with a short or invalid header.
	ErrCorruptHeader = huffman.ErrCorruptHeader

	// ErrTreeReconstructionFailed indicates a header whose counts are all zero.
	ErrTreeReconstructionFailed = huffman.ErrTreeReconstructionFailed

	// ErrOutOfMemory indicates the code tree could not be allocated.
	ErrOutOfMemory = huffman.ErrOutOfMemory

	// ErrCorruptPayload indicates payload bits that disagree with the header.
	ErrCorruptPayload = huffman.ErrCorruptPayload

	// ErrClosed indicates the compressor has been closed.
	ErrClosed = errors.New("huffpack: compressor closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("huffpack: no store provided")
)

// Compressor reads inputs from and writes outputs to a Store.
// A Compressor keeps no per-file state and is safe for concurrent use by
// multiple goroutines.
type Compressor struct {
	store  store.Store
	stats  stats.Collector
	logger *zap.Logger
	closed atomic.Bool
}

// New creates a new Compressor with the given options.
// Without WithStore, names are resolved against the working directory.
func New(opts ...Option) (*Compressor, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.useDisk {
		st, err := diskStore(".")
		if err != nil {
			return nil, err
		}
		cfg.store = st
	}
	if cfg.store == nil {
		return nil, ErrNoStore
	}

	return &Compressor{
		store:  cfg.store,
		stats:  cfg.stats,
		logger: cfg.logger,
	}, nil
}

// Compress reads src twice, once to count byte frequencies and once to
// encode, and writes the compressed form to dst.
func (c *Compressor) Compress(ctx context.Context, src, dst string) (rep *Report, err error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() { c.record(stats.MetricCompressions, rep, err, start) }()

	counts, err := c.count(ctx, src)
	if err != nil {
		return nil, err
	}

	plan, err := huffman.NewPlan(counts)
	if err != nil {
		if errors.Is(err, huffman.ErrEmptyInput) {
			return nil, fmt.Errorf("%w: %q", ErrEmptyInput, src)
		}
		return nil, fmt.Errorf("building codes for %q: %w", src, err)
	}
	c.logger.Debug("built code table",
		zap.String("src", src),
		zap.Int("symbols", counts.Distinct()),
		zap.Int("treeDepth", plan.Tree.Depth()),
		zap.Uint64("bits", plan.Bits),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := c.openInput(ctx, src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	res, err := c.writeOutput(ctx, dst, func(w io.Writer) (huffman.Result, error) {
		return plan.Encode(in, w)
	})
	if err != nil {
		return nil, fmt.Errorf("compressing %q to %q: %w", src, dst, err)
	}

	rep = newReport(src, dst, res, time.Since(start))
	c.logger.Debug("compressed",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int64("bytesIn", rep.BytesIn),
		zap.Int64("bytesOut", rep.BytesOut),
	)
	return rep, nil
}

// Decompress reads the compressed file src and writes the original bytes
// to dst.
func (c *Compressor) Decompress(ctx context.Context, src, dst string) (rep *Report, err error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() { c.record(stats.MetricDecompressions, rep, err, start) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := c.openInput(ctx, src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	res, err := c.writeOutput(ctx, dst, func(w io.Writer) (huffman.Result, error) {
		return huffman.Decode(in, w)
	})
	if err != nil {
		return nil, fmt.Errorf("decompressing %q to %q: %w", src, dst, err)
	}

	rep = newReport(src, dst, res, time.Since(start))
	c.logger.Debug("decompressed",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int64("bytesIn", rep.BytesIn),
		zap.Int64("bytesOut", rep.BytesOut),
	)
	return rep, nil
}

// Inspect reads only the header of src and describes the code it implies.
func (c *Compressor) Inspect(ctx context.Context, src string) (*Info, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := c.openInput(ctx, src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	h, err := format.Read(in)
	if err != nil {
		return nil, fmt.Errorf("inspecting %q: %w", src, err)
	}
	return describe(src, h)
}

// Verify fully decodes src, discarding the output, and checks that the
// decoded bytes have exactly the frequencies recorded in the header.
func (c *Compressor) Verify(ctx context.Context, src string) (*Info, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := c.openInput(ctx, src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	br := bufio.NewReader(in)
	h, err := format.Read(br)
	if err != nil {
		return nil, fmt.Errorf("verifying %q: %w", src, err)
	}
	info, err := describe(src, h)
	if err != nil {
		return nil, err
	}

	var got freq.Table
	res, err := huffman.DecodePayload(br, h, (*tableWriter)(&got))
	if err != nil {
		return nil, fmt.Errorf("verifying %q: %w", src, err)
	}
	if got != h.Freq {
		return nil, fmt.Errorf("verifying %q: %w: decoded frequencies differ from header", src, ErrCorruptPayload)
	}
	info.Size = res.BytesIn
	return info, nil
}

// Close releases all resources associated with the compressor.
// After Close, the compressor should not be used.
func (c *Compressor) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}

	return nil
}

// Store returns the storage backend used by this compressor.
func (c *Compressor) Store() store.Store {
	return c.store
}

// count runs the frequency pass over src.
func (c *Compressor) count(ctx context.Context, src string) (freq.Table, error) {
	if err := ctx.Err(); err != nil {
		return freq.Table{}, err
	}
	in, err := c.openInput(ctx, src)
	if err != nil {
		return freq.Table{}, err
	}
	defer in.Close()

	counts, err := freq.Count(in)
	if err != nil {
		return freq.Table{}, fmt.Errorf("reading %q: %w", src, err)
	}
	return counts, nil
}

func (c *Compressor) openInput(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := c.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrInputNotFound, name)
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrInputNotFound, name, err)
	}
	return rc, nil
}

// writeOutput creates dst, runs fn against it and closes it. If fn fails,
// stores that support it discard dst rather than commit a partial object.
// Failures of the destination itself are reported as ErrOutputWriteFailed.
func (c *Compressor) writeOutput(ctx context.Context, dst string, fn func(io.Writer) (huffman.Result, error)) (huffman.Result, error) {
	wc, err := c.store.Create(ctx, dst)
	if err != nil {
		return huffman.Result{}, fmt.Errorf("%w: %q: %w", ErrOutputWriteFailed, dst, err)
	}

	res, err := fn(&outputWriter{w: wc})
	if err != nil {
		if aerr := store.Abort(wc); aerr != nil {
			c.logger.Debug("discarding output", zap.String("dst", dst), zap.Error(aerr))
		}
		return res, err
	}
	if err := wc.Close(); err != nil {
		return res, fmt.Errorf("%w: closing %q: %w", ErrOutputWriteFailed, dst, err)
	}
	return res, nil
}

func (c *Compressor) record(op string, rep *Report, err error, start time.Time) {
	c.stats.ObserveHistogram(stats.MetricDuration, time.Since(start).Seconds())
	if err != nil {
		c.stats.IncCounter(stats.MetricErrors, 1)
		c.logger.Debug("operation failed", zap.String("op", op), zap.Error(err))
		return
	}
	c.stats.IncCounter(op, 1)
	c.stats.IncCounter(stats.MetricBytesRead, rep.BytesIn)
	c.stats.IncCounter(stats.MetricBytesWritten, rep.BytesOut)
	c.stats.SetGauge(stats.MetricDistinctSymbols, int64(rep.Symbols))
}

// outputWriter tags write failures so they can be told apart from input
// and decoding errors.
type outputWriter struct {
	w io.Writer
}

func (o *outputWriter) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrOutputWriteFailed, err)
	}
	return n, nil
}

// tableWriter counts the bytes written to it.
type tableWriter freq.Table

func (t *tableWriter) Write(p []byte) (int, error) {
	(*freq.Table)(t).Add(p)
	return len(p), nil
}
