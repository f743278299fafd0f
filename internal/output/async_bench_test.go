package output

import (
	"io"
	"testing"
)

// BenchmarkAsyncRecordLines measures queueing console-sized records under
// each overflow strategy with a discarding sink.
func BenchmarkAsyncRecordLines(b *testing.B) {
	line := []byte("2024-01-02 15:04:05.000 [ INFO] ALFA listening on port 8080\n")

	for _, strategy := range []AsyncOverflowStrategy{
		AsyncOverflowDropNewest,
		AsyncOverflowDropOldest,
		AsyncOverflowBlock,
	} {
		b.Run(strategy.String(), func(b *testing.B) {
			async := NewAsyncWriter(io.Discard, AsyncConfig{BufferSize: 256, OverflowStrategy: strategy})
			b.Cleanup(func() { _ = async.Close() })

			b.SetBytes(int64(len(line)))
			b.ReportAllocs()

			for b.Loop() {
				_, _ = async.Write(line)
			}
		})
	}
}

// BenchmarkMultiWriterFanOut measures fanning a record out to two sinks.
func BenchmarkMultiWriterFanOut(b *testing.B) {
	multi, err := NewMultiWriter(NewWriterAdapter(io.Discard), NewWriterAdapter(io.Discard))
	if err != nil {
		b.Fatal(err)
	}

	line := []byte(`{"severity":"INFO","context":"ALFA","message":"ok"}` + "\n")

	b.ReportAllocs()

	for b.Loop() {
		_, _ = multi.Write(line)
	}
}
