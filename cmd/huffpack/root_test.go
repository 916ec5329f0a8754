package main

import (
	"os"
	"testing"

	"github.com/discochess/huffpack/internal/huffman"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-c", "verify", "out.huf"}, "codec"},
		{[]string{"-d", "help", "out"}, "codec"},
		{[]string{"--compress", "inspect", "out.huf"}, "codec"},
		{[]string{"--decompress=true", "a", "b"}, "codec"},
		{[]string{"-v", "-c", "compare", "out.huf"}, "codec"},
		{[]string{"-vd", "in.huf", "out"}, "codec"},
		{[]string{"verify", "a.huf", "b.huf"}, "root"},
		{[]string{"verify", "-j", "4", "a.huf"}, "root"},
		{[]string{"inspect", "--json", "a.huf"}, "root"},
		{[]string{"serve", "--addr", ":0"}, "root"},
		{[]string{"-v"}, "root"},
		{[]string{"verify", "--", "-c"}, "root"},
		{nil, "root"},
	}
	for _, tt := range tests {
		got := "root"
		if commandFor(tt.args) == codecCmd {
			got = "codec"
		}
		if got != tt.want {
			t.Errorf("commandFor(%q) = %s, want %s", tt.args, got, tt.want)
		}
	}
}

func TestCodecCmd_InputNamedLikeSubcommand(t *testing.T) {
	t.Chdir(t.TempDir())
	want := []byte("an input file that happens to be called verify")
	if err := os.WriteFile("verify", want, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cli.shutdown()
		cli = app{}
		compressMode = false
	})

	args := []string{"-c", "verify", "out.huf"}
	cmd := commandFor(args)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(%q) error = %v", args, err)
	}

	packed, err := os.ReadFile("out.huf")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	got, err := huffman.DecodeBytes(packed)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}
