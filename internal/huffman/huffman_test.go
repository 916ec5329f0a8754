package huffman

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
	"testing/iotest"

	"github.com/discochess/huffpack/internal/format"
	"github.com/discochess/huffpack/internal/freq"
)

func TestEncode_Empty(t *testing.T) {
	_, err := Encode(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Encode(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random := make([]byte, 64*1024)
	rng.Read(random)

	all := make([]byte, 256*3)
	for i := range all {
		all[i] = byte(i)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"aaabbc", []byte("aaabbc")},
		{"single byte", []byte{'a'}},
		{"one symbol, 8 times", bytes.Repeat([]byte{'a'}, 8)},
		{"one symbol, 1000 times", bytes.Repeat([]byte{0xff}, 1000)},
		{"exact byte boundary", []byte("aaaabc")},
		{"every byte value", all},
		{"random", random},
		{"text", bytes.Repeat([]byte("abracadabra "), 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encode(tt.data)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			dec, err := DecodeBytes(enc)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if !bytes.Equal(dec, tt.data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d", len(dec), len(tt.data))
			}
		})
	}
}

func TestEncode_HeaderMatchesCounts(t *testing.T) {
	data := []byte("mississippi river")
	enc, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	h, err := format.Read(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("format.Read() error = %v", err)
	}

	var want freq.Table
	want.Add(data)
	if h.Freq != want {
		t.Error("header frequency table does not match input counts")
	}
}

func TestEncode_AAABBCLayout(t *testing.T) {
	enc, err := Encode([]byte("aaabbc"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(enc) != format.Size+2 {
		t.Fatalf("len = %d, want %d", len(enc), format.Size+2)
	}
	if got := binary.LittleEndian.Uint32(enc['a'*4:]); got != 3 {
		t.Errorf("count[a] = %d, want 3", got)
	}
	if got := enc[format.Size-1]; got != 1 {
		t.Errorf("last-bits byte = %d, want 1", got)
	}
	if !bytes.Equal(enc[format.Size:], []byte{0x1f, 0x00}) {
		t.Errorf("payload = %#v, want {0x1f, 0x00}", enc[format.Size:])
	}
}

func TestEncode_ByteBoundaryRecordsZero(t *testing.T) {
	enc, err := Encode([]byte("aaaabc"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := enc[format.Size-1]; got != 0 {
		t.Errorf("last-bits byte = %d, want 0", got)
	}

	dec, err := DecodeBytes(enc)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if string(dec) != "aaaabc" {
		t.Errorf("DecodeBytes() = %q, want %q (no trailing symbol)", dec, "aaaabc")
	}
}

func TestDecode_Errors(t *testing.T) {
	valid, err := Encode([]byte("hello, world"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	zeroTable := make([]byte, format.Size)

	flipped := bytes.Clone(valid)
	flipped[format.Size-1] = (flipped[format.Size-1] + 1) % 8

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrCorruptHeader},
		{"short header", valid[:format.Size/2], ErrCorruptHeader},
		{"all zero counts", zeroTable, ErrTreeReconstructionFailed},
		{"missing payload", valid[:format.Size], ErrCorruptPayload},
		{"truncated payload", valid[:len(valid)-1], ErrCorruptPayload},
		{"extra payload", append(bytes.Clone(valid), 0x00), ErrCorruptPayload},
		{"wrong last-bits", flipped, ErrCorruptPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeBytes() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewPlan(t *testing.T) {
	var counts freq.Table
	counts.Add([]byte("aaabbc"))

	p, err := NewPlan(counts)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if p.Bits != 9 {
		t.Errorf("Bits = %d, want 9", p.Bits)
	}
	if p.Size() != format.Size+2 {
		t.Errorf("Size() = %d, want %d", p.Size(), format.Size+2)
	}
	if p.Header().LastBits != 1 {
		t.Errorf("Header().LastBits = %d, want 1", p.Header().LastBits)
	}
}

func TestPlan_Encode_InputChanged(t *testing.T) {
	var counts freq.Table
	counts.Add([]byte("aaabbc"))
	p, err := NewPlan(counts)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	if _, err := p.Encode(bytes.NewReader([]byte("aaabb")), &bytes.Buffer{}); err == nil {
		t.Error("Encode() with different input should fail")
	}
}

func TestDeterministic(t *testing.T) {
	data := []byte("she sells sea shells by the sea shore")
	a, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two encodings of the same input differ")
	}
}

func TestDecode_Streams(t *testing.T) {
	data := bytes.Repeat([]byte("streaming payload "), 2000)
	packed, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var out bytes.Buffer
	res, err := Decode(iotest.OneByteReader(bytes.NewReader(packed)), &out)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Error("Decode() output differs from input")
	}
	if res.BytesIn != int64(len(packed)) || res.BytesOut != int64(len(data)) {
		t.Errorf("Result = %+v, want BytesIn %d, BytesOut %d", res, len(packed), len(data))
	}
}

func TestDecodePayload_AfterHeader(t *testing.T) {
	packed, err := Encode([]byte("aaabbc"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	r := bytes.NewReader(packed)
	h, err := format.Read(r)
	if err != nil {
		t.Fatalf("format.Read() error = %v", err)
	}

	var out bytes.Buffer
	if _, err := DecodePayload(r, h, &out); err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if out.String() != "aaabbc" {
		t.Errorf("DecodePayload() = %q, want %q", out.String(), "aaabbc")
	}
}
