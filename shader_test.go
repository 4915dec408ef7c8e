package vkr

import "testing"

func TestRepackUint32(t *testing.T) {
	// SPIR-V magic number in little endian
	code := []byte{0x03, 0x02, 0x23, 0x07}

	words := repackUint32(code)
	if len(words) != 1 {
		t.Fatalf("got %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("got 0x%08x", words[0])
	}
}
