package vkr

import "testing"

func TestPadUniformBufferSize(t *testing.T) {
	cases := []struct {
		size, alignment, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{100, 64, 128},
		{176, 256, 256},
		{100, 0, 100},
	}

	for _, c := range cases {
		got := PadUniformBufferSize(c.size, c.alignment)
		if got != c.want {
			t.Errorf("pad(%d, %d) = %d, want %d", c.size, c.alignment, got, c.want)
		}
		if got < c.size {
			t.Errorf("pad(%d, %d) shrank to %d", c.size, c.alignment, got)
		}
		if c.alignment > 0 && got%c.alignment != 0 {
			t.Errorf("pad(%d, %d) = %d is misaligned", c.size, c.alignment, got)
		}
		// padding an already padded size must be a no-op
		if PadUniformBufferSize(got, c.alignment) != got {
			t.Errorf("pad(%d, %d) is not idempotent", c.size, c.alignment)
		}
	}
}

func TestUniformRingOffsets(t *testing.T) {
	ring := &UniformRing{Stride: 256, Count: 3}

	for slot := uint32(0); slot < ring.Count; slot++ {
		offset, err := ring.OffsetFor(slot)
		if err != nil {
			t.Fatal(err)
		}
		if offset != slot*256 {
			t.Errorf("slot %d offset %d", slot, offset)
		}
	}

	_, err := ring.OffsetFor(3)
	if err == nil {
		t.Error("expected an error for an out of range slot")
	}
}

func TestUniformRingOffsetsNeverOverlap(t *testing.T) {
	// each slot's region must end before the next begins, no matter the
	// element size
	for _, elemSize := range []uint64{1, 63, 64, 65, 200, 256} {
		stride := PadUniformBufferSize(elemSize, 64)
		ring := &UniformRing{Stride: stride, Count: 4}

		for slot := uint32(0); slot+1 < ring.Count; slot++ {
			a, _ := ring.OffsetFor(slot)
			b, _ := ring.OffsetFor(slot + 1)
			if uint64(a)+elemSize > uint64(b) {
				t.Fatalf("slot %d region overlaps slot %d for element size %d", slot, slot+1, elemSize)
			}
		}
	}
}
