//go:build e2e

package huffpack_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/discochess/huffpack"
)

// runCLI runs the huffpack command with the given arguments.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "./cmd/huffpack"}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func TestE2E_CLIRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "input.txt")
	packed := filepath.Join(tmpDir, "input.huf")
	restored := filepath.Join(tmpDir, "restored.txt")

	// Step 1: Write a sample with a skewed distribution.
	data := []byte(strings.Repeat("it was the best of times, it was the worst of times\n", 2000))
	if err := os.WriteFile(src, data, 0o644); err != nil {
		t.Fatalf("Error writing input: %v", err)
	}

	// Step 2: Compress.
	start := time.Now()
	if out, err := runCLI(t, "-c", src, packed); err != nil {
		t.Fatalf("compress failed: %v\n%s", err, out)
	}
	t.Logf("Compressed in %v", time.Since(start))

	// Step 3: Inspect and verify.
	out, err := runCLI(t, "inspect", "--symbols", packed)
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	t.Log(out)
	if out, err := runCLI(t, "verify", packed); err != nil {
		t.Fatalf("verify failed: %v\n%s", err, out)
	}

	// Step 4: Decompress and compare.
	if out, err := runCLI(t, "-d", packed, restored); err != nil {
		t.Fatalf("decompress failed: %v\n%s", err, out)
	}
	got, err := os.ReadFile(restored)
	if err != nil {
		t.Fatalf("Error reading output: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("restored file differs: %d bytes, want %d", len(got), len(data))
	}

	info, err := os.Stat(packed)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("Results: %d -> %d bytes", len(data), info.Size())
}

func TestE2E_CLIUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no mode", []string{"a", "b"}},
		{"both modes", []string{"-c", "-d", "a", "b"}},
		{"one arg", []string{"-c", "a"}},
		{"three args", []string{"-c", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatalf("expected failure, got success:\n%s", out)
			}
			if !strings.Contains(out, "Usage:") {
				t.Errorf("expected usage text, got:\n%s", out)
			}
		})
	}
}

func TestE2E_EmptyInput(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "empty")
	if err := os.WriteFile(src, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-c", src, filepath.Join(tmpDir, "out.huf"))
	if err == nil {
		t.Fatalf("expected failure for empty input:\n%s", out)
	}
	if !strings.Contains(out, huffpack.ErrEmptyInput.Error()) {
		t.Errorf("expected %q in output, got:\n%s", huffpack.ErrEmptyInput, out)
	}
}
