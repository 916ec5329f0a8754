package memoryhuffpackfx

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/huffpack"
	"github.com/discochess/huffpack/internal/store/memstore"
)

func TestModule(t *testing.T) {
	var (
		c   *huffpack.Compressor
		mem *memstore.Store
	)
	app := fxtest.New(t,
		fx.Provide(zap.NewNop),
		Module,
		fx.Populate(&c, &mem),
	)
	app.RequireStart()
	defer app.RequireStop()

	want := []byte("in-memory round trip")
	mem.Put("in", want)

	ctx := context.Background()
	if _, err := c.Compress(ctx, "in", "in.huf"); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if _, err := c.Decompress(ctx, "in.huf", "out"); err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if got, _ := mem.Get("out"); !bytes.Equal(got, want) {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}
