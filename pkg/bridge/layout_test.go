package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logbridge/internal/recordertest"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

func TestVerifyLayout(t *testing.T) {
	tests := []struct {
		name    string
		size    uintptr
		align   uintptr
		wantErr bool
	}{
		{name: "matching", size: recorder.SlotStorageSize, align: recorder.SlotStorageAlign},
		{name: "size differs", size: 32, align: recorder.SlotStorageAlign, wantErr: true},
		{name: "alignment differs", size: recorder.SlotStorageSize, align: 2 * recorder.SlotStorageAlign, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordertest.New(recordertest.WithLayout(tt.size, tt.align))

			err := VerifyLayout(rec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrSlotLayoutMismatch)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestLayoutGateRunsOnce(t *testing.T) {
	var gate layoutGate

	bad := recordertest.New(recordertest.WithLayout(16, 8))
	good := recordertest.New()

	require.ErrorIs(t, gate.check(bad), ErrSlotLayoutMismatch)
	require.ErrorIs(t, gate.check(good), ErrSlotLayoutMismatch)

	var fresh layoutGate

	require.NoError(t, fresh.check(good))
	require.NoError(t, fresh.check(bad))
}

func TestMismatchFailsBeforeAnyRecord(t *testing.T) {
	rec := recordertest.New(recordertest.WithLayout(48, 16))

	builder := NewBuilder().WithRecorder(rec)
	builder.gate = &layoutGate{}

	assert.Panics(t, func() { builder.Build() })
	assert.Equal(t, 0, rec.Count("StartRecord"))
	assert.Equal(t, 0, rec.Writes())
}

func TestMatchingLayoutBuilds(t *testing.T) {
	rec := recordertest.New()

	builder := NewBuilder().WithRecorder(rec)
	builder.gate = &layoutGate{}

	log := builder.Build()
	log.Info("ready")

	assert.Equal(t, 1, rec.Count("StartRecord"))
	assert.Equal(t, 1, rec.Count("StopRecord"))
}

func TestBuildSharesProcessLayoutGate(t *testing.T) {
	NewBuilder().WithRecorder(recordertest.New()).Build()

	mismatched := recordertest.New(recordertest.WithLayout(48, 16))

	assert.NotPanics(t, func() { EnsureLayout(mismatched) })
}
