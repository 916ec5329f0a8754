// Package server exposes a Compressor over HTTP.
//
// Clients upload a file to /api/compress or /api/decompress as the "file"
// field of a multipart form. The result is stored next to the upload and
// fetched with /api/download/<name>. Errors are JSON objects with an
// "error" field.
package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
	"github.com/discochess/huffpack/internal/store"
)

// DefaultMaxUploadBytes limits the size of a single upload.
const DefaultMaxUploadBytes = 32 << 20

// Request errors.
var (
	ErrNoFile       = errors.New("no file uploaded")
	ErrInvalidName  = errors.New("invalid filename")
	ErrUploadTooBig = errors.New("upload too large")
)

// Config configures a Handler.
type Config struct {
	// Dir is where uploads and results are stored. It may be a local
	// directory or an s3:// or gs:// prefix. Default is "uploads".
	Dir string

	// MaxUploadBytes limits the size of an upload.
	// Default is DefaultMaxUploadBytes.
	MaxUploadBytes int64

	// Logger receives one line per request. Optional.
	Logger *zap.Logger
}

// Handler serves compression requests.
type Handler struct {
	compressor *huffpack.Compressor
	store      store.Store
	dir        string
	maxUpload  int64
	logger     *zap.Logger

	now func() time.Time
	seq atomic.Uint64
}

// New creates a Handler that stores files through c's store.
func New(c *huffpack.Compressor, cfg Config) *Handler {
	if cfg.Dir == "" {
		cfg.Dir = "uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		compressor: c,
		store:      c.Store(),
		dir:        strings.TrimSuffix(cfg.Dir, "/"),
		maxUpload:  cfg.MaxUploadBytes,
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

type compressResp struct {
	Success        bool    `json:"success"`
	OriginalSize   int64   `json:"original_size"`
	CompressedSize int64   `json:"compressed_size"`
	Ratio          float64 `json:"ratio"`
	DownloadFile   string  `json:"download_file"`
}

type decompressResp struct {
	Success          bool   `json:"success"`
	CompressedSize   int64  `json:"compressed_size"`
	DecompressedSize int64  `json:"decompressed_size"`
	DownloadFile     string `json:"download_file"`
}

// Health reports that the server is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "huffpack server is running", "status": "ok"})
}

// Compress stores the uploaded file and compresses it.
func (h *Handler) Compress(c *gin.Context) {
	stamp := h.stamp()
	name, in, err := h.saveUpload(c, stamp)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := stamp + "_" + name + ".huf"
	rep, err := h.compressor.Compress(c.Request.Context(), in, h.object(out))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, compressResp{
		Success:        true,
		OriginalSize:   rep.BytesIn,
		CompressedSize: rep.BytesOut,
		Ratio:          savedPercent(rep),
		DownloadFile:   out,
	})
}

// Decompress stores the uploaded compressed file and restores it.
func (h *Handler) Decompress(c *gin.Context) {
	stamp := h.stamp()
	name, in, err := h.saveUpload(c, stamp)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := stamp + "_" + restoredName(name)
	rep, err := h.compressor.Decompress(c.Request.Context(), in, h.object(out))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, decompressResp{
		Success:          true,
		CompressedSize:   rep.BytesIn,
		DecompressedSize: rep.BytesOut,
		DownloadFile:     out,
	})
}

// Download streams a stored file as an attachment.
func (h *Handler) Download(c *gin.Context) {
	name := c.Param("name")
	if !validName(name) {
		h.fail(c, fmt.Errorf("%w: %q", ErrInvalidName, name))
		return
	}

	rc, err := h.store.Open(c.Request.Context(), h.object(name))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer rc.Close()

	contentType := "application/octet-stream"
	if strings.HasSuffix(name, ".txt") {
		contentType = "text/plain; charset=utf-8"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

// saveUpload copies the "file" form field into the store and returns its
// client name and object name.
func (h *Handler) saveUpload(c *gin.Context, stamp string) (string, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return "", "", fmt.Errorf("%w: limit is %d bytes", ErrUploadTooBig, tooBig.Limit)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return "", "", ErrNoFile
		}
		return "", "", fmt.Errorf("%w: %w", ErrNoFile, err)
	}
	if !validName(fh.Filename) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	obj := h.object(stamp + "_" + fh.Filename)
	wc, err := h.store.Create(c.Request.Context(), obj)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", huffpack.ErrOutputWriteFailed, err)
	}
	if _, err := io.Copy(wc, src); err != nil {
		_ = store.Abort(wc)
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", "", fmt.Errorf("%w: %w", huffpack.ErrOutputWriteFailed, err)
	}
	return fh.Filename, obj, nil
}

// fail writes err as a JSON error with the status it maps to.
func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps an error from a Compressor, its store or a request to an
// HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUploadTooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNoFile),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, huffpack.ErrEmptyInput),
		errors.Is(err, huffpack.ErrCorruptHeader),
		errors.Is(err, huffpack.ErrTreeReconstructionFailed),
		errors.Is(err, huffpack.ErrCorruptPayload):
		return http.StatusBadRequest
	case errors.Is(err, huffpack.ErrInputNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *Handler) object(name string) string {
	return h.dir + "/" + name
}

// stamp returns a prefix unique to one request.
func (h *Handler) stamp() string {
	return fmt.Sprintf("%s-%d", h.now().UTC().Format("20060102_150405"), h.seq.Add(1))
}

func validName(name string) bool {
	return name != "" && name != "." &&
		!strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

// restoredName names the output of decompressing name:
// "notes.txt.huf" becomes "notes_decompressed.txt".
func restoredName(name string) string {
	base := strings.TrimSuffix(name, ".huf")
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + "_decompressed" + ext
}

// savedPercent is the share of the input saved, rounded to two decimals.
func savedPercent(rep *huffpack.Report) float64 {
	if rep.BytesIn == 0 {
		return 0
	}
	saved := float64(rep.BytesIn-rep.BytesOut) / float64(rep.BytesIn) * 100
	return math.Round(saved*100) / 100
}
