package vkr

import (
	"testing"
	"unsafe"
)

func TestAlignUp(t *testing.T) {
	if alignUp(12, 4) != 12 {
		t.Fail()
	}
	if alignUp(10, 4) != 12 {
		t.Fail()
	}
	if alignUp(1, 256) != 256 {
		t.Fail()
	}
	if alignUp(0, 64) != 0 {
		t.Fail()
	}
	if alignUp(100, 0) != 100 {
		t.Error("zero alignment should leave the size untouched")
	}
}

func TestSafeString(t *testing.T) {
	s := safeString("hello")
	if s[len(s)-1] != endChar {
		t.Error("string is not null terminated")
	}

	// terminating twice must not add a second null
	if safeString(s) != s {
		t.Fail()
	}

	if safeString("") != end {
		t.Fail()
	}
}

func TestToBytes(t *testing.T) {
	data := []uint32{0x04030201}
	b := ToBytes(unsafe.Pointer(&data[0]), 4)
	if len(b) != 4 {
		t.Fatalf("got %d bytes", len(b))
	}
	if b[0] != 0x01 || b[3] != 0x04 {
		t.Errorf("unexpected byte order % x", b)
	}
}
