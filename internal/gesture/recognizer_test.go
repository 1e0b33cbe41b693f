package gesture

import (
	"testing"
	"time"
)

type fakeClock struct {
	times []time.Duration
	idx   int
}

func (c *fakeClock) now() time.Time {
	base := time.Unix(0, 0)
	if c.idx >= len(c.times) {
		return base.Add(c.times[len(c.times)-1])
	}
	t := base.Add(c.times[c.idx])
	c.idx++
	return t
}

func tap(r *Recognizer) bool {
	r.HandleDown()
	return r.HandleUp()
}

func TestDoubleTapWithinThreshold(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 200 * time.Millisecond}}
	r := New(DefaultThreshold)
	r.SetNowFunc(clock.now)
	if tap(r) {
		t.Fatalf("expected first tap not to fire")
	}
	if !tap(r) {
		t.Fatalf("expected second tap to fire")
	}
}

func TestTapsOutsideThresholdFireOnce(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 200 * time.Millisecond, time.Second}}
	r := New(350 * time.Millisecond)
	r.SetNowFunc(clock.now)
	fired := 0
	for i := 0; i < 3; i++ {
		if tap(r) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one double tap, got %d", fired)
	}
}

func TestThresholdIsStrict(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 350 * time.Millisecond}}
	r := New(350 * time.Millisecond)
	r.SetNowFunc(clock.now)
	tap(r)
	if tap(r) {
		t.Fatalf("expected tap exactly at threshold not to fire")
	}
}

func TestChordClearsBaseline(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}}
	r := New(DefaultThreshold)
	r.SetNowFunc(clock.now)
	tap(r)

	r.HandleDown()
	r.HandleChord()
	if r.HandleUp() {
		t.Fatalf("expected chorded release not to fire")
	}
	if tap(r) {
		t.Fatalf("expected tap after chord to start a new baseline")
	}
	if !tap(r) {
		t.Fatalf("expected following tap to fire")
	}
}

func TestUpWithoutDownIgnored(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 10 * time.Millisecond}}
	r := New(DefaultThreshold)
	r.SetNowFunc(clock.now)
	if r.HandleUp() {
		t.Fatalf("expected stray release to be ignored")
	}
	if tap(r) {
		t.Fatalf("expected stray release not to count as a tap")
	}
	if r.HandleUp() {
		t.Fatalf("expected second release without press to be ignored")
	}
}

func TestChordWithoutDownIsIgnored(t *testing.T) {
	r := New(0)
	if r.Threshold() != DefaultThreshold {
		t.Fatalf("expected default threshold, got %v", r.Threshold())
	}
	r.HandleChord()
	r.HandleDown()
	if r.usedAsModifier {
		t.Fatalf("expected press to clear chord flag")
	}
}
