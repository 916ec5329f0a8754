package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/huffpack/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve compression over HTTP",
	Long: `Run an HTTP server that compresses and decompresses uploaded files.

Routes (also served without the /api prefix):
  GET  /                      health check
  POST /api/compress          multipart field "file"; returns sizes and a download name
  POST /api/decompress        multipart field "file"; returns sizes and a download name
  GET  /api/download/<name>   fetch a result

Uploads and results are kept under --dir, which may be a local directory or
an s3:// or gs:// prefix.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr      string
	serveDir       string
	serveMaxUpload int64
)

const shutdownTimeout = 10 * time.Second

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:5000", "address to listen on")
	serveCmd.Flags().StringVar(&serveDir, "dir", "uploads", "where uploads and results are stored")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", server.DefaultMaxUploadBytes, "largest accepted upload in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	if !strings.Contains(serveDir, "://") {
		if err := os.MkdirAll(serveDir, 0o755); err != nil {
			return fmt.Errorf("creating upload dir: %w", err)
		}
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	h := server.New(cli.compressor, server.Config{
		Dir:            serveDir,
		MaxUploadBytes: serveMaxUpload,
		Logger:         cli.logger.Named("http"),
	})
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.NewEngine(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Printf("Serving on http://%s (files in %s)\n", serveAddr, serveDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		cli.logger.Info("shutting down", zap.String("addr", serveAddr))
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
