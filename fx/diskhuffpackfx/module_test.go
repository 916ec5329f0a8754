package diskhuffpackfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
)

func TestModule(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "in.txt"), []byte("fx wiring"), 0o644); err != nil {
		t.Fatal(err)
	}

	var c *huffpack.Compressor
	app := fxtest.New(t,
		fx.Supply(Config{Dir: dir}),
		fx.Provide(zap.NewNop),
		Module,
		fx.Populate(&c),
	)
	app.RequireStart()

	ctx := context.Background()
	if _, err := c.Compress(ctx, "in.txt", "in.huf"); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if _, err := c.Verify(ctx, "in.huf"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	app.RequireStop()
	if err := c.Close(); err == nil {
		t.Error("compressor should already be closed after stop")
	}
}
