package vkr

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type fakeFrameSync struct {
	calls   []string
	waitErr error
}

func (f *fakeFrameSync) waitSlot(slot int, timeoutNanos uint64) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	f.calls = append(f.calls, fmt.Sprintf("wait:%d", slot))
	return nil
}

func (f *fakeFrameSync) resetSlot(slot int) error {
	f.calls = append(f.calls, fmt.Sprintf("reset:%d", slot))
	return nil
}

func testRing(count int, sync frameSync) *FrameRing {
	ring := &FrameRing{sync: sync, frames: make([]*Frame, count)}
	for i := range ring.frames {
		ring.frames[i] = &Frame{Index: i, ring: ring}
	}
	return ring
}

func acquireImage(index uint32) func(vk.Semaphore) (uint32, bool, error) {
	return func(vk.Semaphore) (uint32, bool, error) {
		return index, false, nil
	}
}

func acquireOutOfDate(vk.Semaphore) (uint32, bool, error) {
	return 0, true, nil
}

func TestFrameRingSlotOrder(t *testing.T) {
	ring := testRing(3, &fakeFrameSync{})

	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i, expect := range want {
		if ring.Current().Index != expect {
			t.Fatalf("iteration %d: on slot %d, want %d", i, ring.Current().Index, expect)
		}
		ring.advance()
	}
}

func TestFrameRingWaitsBeforeReuse(t *testing.T) {
	sync := &fakeFrameSync{}
	ring := testRing(3, sync)

	// ten frames through a three slot ring
	for i := 0; i < 10; i++ {
		frame, outOfDate, err := ring.begin(acquireImage(uint32(i)))
		if err != nil {
			t.Fatal(err)
		}
		if outOfDate || frame == nil {
			t.Fatalf("frame %d: expected a usable frame", i)
		}
		if frame.ImageIndex() != uint32(i) {
			t.Fatalf("frame %d carries image index %d", i, frame.ImageIndex())
		}
		ring.advance()
	}

	if len(sync.calls) != 20 {
		t.Fatalf("expected 20 sync calls, got %d", len(sync.calls))
	}
	// frame f claims slot f mod 3 with a wait immediately followed by a
	// reset of that same slot
	for f := 0; f < 10; f++ {
		slot := f % 3
		if sync.calls[f*2] != fmt.Sprintf("wait:%d", slot) ||
			sync.calls[f*2+1] != fmt.Sprintf("reset:%d", slot) {
			t.Fatalf("frame %d recorded %s,%s", f, sync.calls[f*2], sync.calls[f*2+1])
		}
	}
}

func TestFrameRingOutOfDateLeavesFenceSignaled(t *testing.T) {
	sync := &fakeFrameSync{}
	ring := testRing(3, sync)

	frame, outOfDate, err := ring.begin(acquireOutOfDate)
	if err != nil {
		t.Fatal(err)
	}
	if !outOfDate || frame != nil {
		t.Fatal("expected the out-of-date acquire to yield no frame")
	}
	// nothing will be submitted for this slot, so the fence must stay
	// signaled for the retry after recreation
	for _, c := range sync.calls {
		if c == "reset:0" {
			t.Fatal("fence was reset with no submission to re-signal it")
		}
	}

	// the retry on the same slot must succeed immediately
	frame, outOfDate, err = ring.begin(acquireImage(1))
	if err != nil || outOfDate || frame == nil {
		t.Fatalf("retry failed: frame=%v outOfDate=%v err=%v", frame, outOfDate, err)
	}
	want := []string{"wait:0", "wait:0", "reset:0"}
	if len(sync.calls) != len(want) {
		t.Fatalf("recorded %v", sync.calls)
	}
	for i, c := range want {
		if sync.calls[i] != c {
			t.Fatalf("recorded %v, want %v", sync.calls, want)
		}
	}
}

func TestFrameRingAcquireFailureKeepsFenceSignaled(t *testing.T) {
	sync := &fakeFrameSync{}
	ring := testRing(3, sync)

	boom := errors.New("device lost")
	_, _, err := ring.begin(func(vk.Semaphore) (uint32, bool, error) {
		return 0, false, boom
	})
	if err == nil {
		t.Fatal("expected the acquire error to propagate")
	}
	for _, c := range sync.calls {
		if c == "reset:0" {
			t.Error("fence was reset after a failed acquire")
		}
	}
}

func TestFrameRingWaitFailureIsFatal(t *testing.T) {
	sync := &fakeFrameSync{waitErr: errors.New("fence wait timed out")}
	ring := testRing(3, sync)

	_, _, err := ring.begin(acquireImage(0))
	if err == nil {
		t.Fatal("expected the wait error to propagate")
	}
	// the fence must stay armed when the wait failed
	for _, c := range sync.calls {
		if c == "reset:0" {
			t.Error("fence was reset after a failed wait")
		}
	}
	if ring.Current().Index != 0 {
		t.Error("ring advanced past a failed slot")
	}
}

func TestFrameWriteUniformWithoutRegion(t *testing.T) {
	ring := testRing(3, &fakeFrameSync{})

	err := ring.Current().WriteUniform([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected a write into a ring without a uniform region to fail")
	}
}

func TestFrameRingCount(t *testing.T) {
	ring := testRing(FramesInFlight, &fakeFrameSync{})
	if ring.Count() != FramesInFlight {
		t.Fail()
	}
	if len(ring.Frames()) != FramesInFlight {
		t.Fail()
	}
}
