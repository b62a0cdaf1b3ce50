package bitio

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	w := NewWriter()
	codes := []struct {
		n uint
		v uint32
	}{
		{3, 5}, {1, 1}, {9, 300}, {12, 4095}, {4, 0},
	}
	for _, c := range codes {
		w.WriteBits(c.n, c.v)
	}
	w.Flush()

	r := NewReader(w.Bytes())
	for _, c := range codes {
		got, err := r.ReadBits(c.n, 0)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", c.n, err)
		}
		want := c.v & (uint32(1)<<c.n - 1)
		if got != want {
			t.Fatalf("ReadBits(%d): got %d want %d", c.n, got, want)
		}
	}
}

func TestReadBits_ZeroIsNoop(t *testing.T) {
	r := NewReader(nil)
	got, err := r.ReadBits(0, 42)
	if err != nil {
		t.Fatalf("ReadBits(0): %v", err)
	}
	if got != 42 {
		t.Fatalf("ReadBits(0, 42) = %d, want 42", got)
	}
}

func TestReadBits_FailsOnExhaustedBuffer(t *testing.T) {
	r := NewReader([]byte{0xff})
	if _, err := r.ReadBits(16, 0); err == nil {
		t.Fatalf("expected error reading 16 bits from a 1-byte buffer")
	}
}

func TestLSBFirstByteOrder(t *testing.T) {
	// Writing 3 then 5 bits should pack LSB-first into a single byte:
	// bit layout (low to high): [v0 bits][v1 bits]
	w := NewWriter()
	w.WriteBits(3, 0b011) // low 3 bits: 0,1,1
	w.WriteBits(5, 0b10101)
	w.Flush()

	want := byte(0b011) | byte(0b10101)<<3
	if got := w.Bytes()[0]; got != want {
		t.Fatalf("got byte %08b want %08b", got, want)
	}
}
