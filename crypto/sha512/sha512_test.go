package sha512

import (
	"bytes"
	"encoding/hex"
	"testing"
)

var vectors = []struct {
	name     string
	message  string
	expected string
}{
	{
		name:     "FIPS180-4_one_block_abc",
		message:  "616263",
		expected: "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	},
	{
		name:     "empty",
		message:  "",
		expected: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
	},
}

func TestVectors(t *testing.T) {
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			msg, err := hex.DecodeString(v.message)
			if err != nil {
				t.Fatalf("bad hex fixture: %v", err)
			}
			want, err := hex.DecodeString(v.expected)
			if err != nil {
				t.Fatalf("bad hex fixture: %v", err)
			}
			got := Sum512(msg)
			if !bytes.Equal(got[:], want) {
				t.Fatalf("Sum512(%s) = %x, want %x", v.message, got, want)
			}
		})
	}
}

func TestStreamingMatchesOneShotAnyChunking(t *testing.T) {
	msg := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 41)
	want := Sum512(msg)

	for _, chunkSize := range []int{1, 3, 7, 16, 111, 112, 113, 128, 129, 257, 2048} {
		c := New()
		for i := 0; i < len(msg); i += chunkSize {
			end := i + chunkSize
			if end > len(msg) {
				end = len(msg)
			}
			c.Write(msg[i:end])
		}
		got := c.Sum(nil)
		if !bytes.Equal(got, want[:]) {
			t.Fatalf("chunk size %d: got %x, want %x", chunkSize, got, want)
		}
	}
}

func TestResetReusesContext(t *testing.T) {
	c := New()
	c.Write([]byte("abc"))
	c.Sum(nil)
	c.Reset()
	c.Write([]byte("abc"))
	got := c.Sum(nil)
	want := Sum512([]byte("abc"))
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestBlockBoundaries(t *testing.T) {
	for _, n := range []int{111, 112, 113, 127, 128, 129, 239, 240, 241} {
		msg := bytes.Repeat([]byte{0x61}, n)
		c := New()
		c.Write(msg)
		got := c.Sum(nil)
		want := Sum512(msg)
		if !bytes.Equal(got, want[:]) {
			t.Fatalf("len %d: got %x, want %x", n, got, want)
		}
	}
}
