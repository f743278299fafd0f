package bridge

import (
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// ErrSlotLayoutMismatch is raised when the recorder was built against a
// different SlotStorage layout than the bridge.
var ErrSlotLayoutMismatch = ewrap.New("slot storage layout mismatch")

// VerifyLayout compares the SlotStorage layout of this build with the one
// the recorder reports.
func VerifyLayout(r recorder.Recorder) error {
	size, align := recorder.Layout()

	if r.SlotSize() == size && r.SlotAlignment() == align {
		return nil
	}

	return ewrap.Wrap(ErrSlotLayoutMismatch, "recorder and bridge disagree on slot layout").
		WithMetadata("bridge_size", size).
		WithMetadata("bridge_align", align).
		WithMetadata("recorder_size", r.SlotSize()).
		WithMetadata("recorder_align", r.SlotAlignment())
}

// layoutGate runs VerifyLayout once and remembers the outcome.
type layoutGate struct {
	once sync.Once
	err  error
}

func (g *layoutGate) check(r recorder.Recorder) error {
	g.once.Do(func() {
		g.err = VerifyLayout(r)
	})

	return g.err
}

//nolint:gochecknoglobals
var processLayout layoutGate

// EnsureLayout verifies the installed recorder's layout once per process.
// A mismatch means records would corrupt memory owned by the recorder, so it
// panics, and keeps panicking on every later call.
func EnsureLayout(r recorder.Recorder) {
	err := processLayout.check(r)
	if err != nil {
		panic(err)
	}
}
