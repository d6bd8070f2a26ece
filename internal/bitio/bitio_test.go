package bitio

import "testing"

func TestMinBytes(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 3},
		{1 << 63, 8},
		{^uint64(0), 8},
	}
	for _, c := range cases {
		if got := MinBytes(c.v); got != c.want {
			t.Errorf("MinBytes(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestPutUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 65535, 65536, 1 << 40, ^uint64(0)}
	for _, v := range cases {
		n := MinBytes(v)
		buf := make([]byte, n)
		PutUint(buf, v)
		if got := Uint(buf); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestPutUintBigEndian(t *testing.T) {
	buf := make([]byte, 2)
	PutUint(buf, 0x0102)
	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("PutUint big-endian mismatch: %x", buf)
	}
}

func TestUintEmptyBuf(t *testing.T) {
	if got := Uint(nil); got != 0 {
		t.Errorf("Uint(nil) = %d, want 0", got)
	}
}
