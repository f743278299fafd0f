package bridge

import (
	"testing"

	"github.com/hyp3rd/ewrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/recordertest"
)

func TestRefusedStreamForwardsNothing(t *testing.T) {
	rec := recordertest.New(recordertest.WithRefusal())
	ctx := logbridge.MustContext("ALFA")

	stream := Open(rec, ctx, logbridge.LevelError)
	assert.False(t, stream.IsOpen())

	require.NoError(t, stream.Write(logbridge.Str("lost")))
	stream.WriteUint32(7)
	stream.WriteHex64(1)
	stream.Close()
	stream.Close()

	assert.Equal(t, 1, rec.Count("StartRecord"))
	assert.Equal(t, 0, rec.Writes())
	assert.Equal(t, 0, rec.Count("StopRecord"))
}

func TestOpenedStreamClosesExactlyOnce(t *testing.T) {
	rec := recordertest.New()
	ctx := logbridge.MustContext("ALFA")

	stream := Open(rec, ctx, logbridge.LevelWarn)
	require.True(t, stream.IsOpen())

	require.NoError(t, stream.Write(logbridge.Str("temp ")))
	require.ErrorIs(t, stream.Write(logbridge.Bool(true).Hex()), ErrUnsupportedHint)
	require.ErrorIs(t, stream.Write(logbridge.Str("\xff")), ErrInvalidText)
	require.NoError(t, stream.Write(logbridge.Float64(21.5)))

	stream.Close()
	stream.Close()

	assert.False(t, stream.IsOpen())
	assert.Equal(t, 1, rec.Count("StopRecord"))
	assert.Equal(t, 2, rec.Writes())
	assert.Equal(t, 0, rec.OpenSlots())

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "temp 21.5", records[0].Message())

	require.NoError(t, stream.Write(logbridge.Str("after close")))
	assert.Equal(t, 2, rec.Writes())
}

func TestScopedClosesOnEveryPath(t *testing.T) {
	ctx := logbridge.MustContext("SCOP")

	t.Run("normal return", func(t *testing.T) {
		rec := recordertest.New()

		err := Scoped(rec, ctx, logbridge.LevelInfo, func(s *Stream) error {
			return s.Write(logbridge.Int32(-4))
		})

		require.NoError(t, err)
		assert.Equal(t, 1, rec.Count("StopRecord"))
	})

	t.Run("early error", func(t *testing.T) {
		rec := recordertest.New()
		boom := ewrap.New("boom")

		err := Scoped(rec, ctx, logbridge.LevelInfo, func(*Stream) error {
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, rec.Count("StopRecord"))
	})

	t.Run("panic", func(t *testing.T) {
		rec := recordertest.New()

		assert.Panics(t, func() {
			_ = Scoped(rec, ctx, logbridge.LevelInfo, func(s *Stream) error {
				s.WriteString("half")
				panic("writer exploded")
			})
		})

		assert.Equal(t, 1, rec.Count("StopRecord"))
		assert.Equal(t, 0, rec.OpenSlots())
	})

	t.Run("refused", func(t *testing.T) {
		rec := recordertest.New(recordertest.WithRefusal())
		called := false

		err := Scoped(rec, ctx, logbridge.LevelInfo, func(s *Stream) error {
			called = true

			return s.Write(logbridge.Uint8(1))
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, 0, rec.Count("StopRecord"))
		assert.Equal(t, 0, rec.Writes())
	})
}

func TestOpenRejectsOff(t *testing.T) {
	rec := recordertest.New()

	assert.Panics(t, func() { Open(rec, logbridge.MustContext("X"), logbridge.LevelOff) })
	assert.Equal(t, 0, rec.Count("StartRecord"))
}

func TestConcurrentStreamsStayIsolated(t *testing.T) {
	rec := recordertest.New()
	ctx := logbridge.MustContext("CONC")

	first := Open(rec, ctx, logbridge.LevelInfo)
	second := Open(rec, ctx, logbridge.LevelDebug)

	first.WriteString("one")
	second.WriteString("two")
	first.WriteUint8(1)

	second.Close()
	first.Close()

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "two", records[0].Message())
	assert.Equal(t, "one1", records[1].Message())
}
