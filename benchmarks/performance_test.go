// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for the send path.

package benchmarks

import (
	"testing"

	"github.com/momentics/hioload-sock/buffer"
	"github.com/momentics/hioload-sock/fake"
	"github.com/momentics/hioload-sock/logging"
	"github.com/momentics/hioload-sock/pool"
	"github.com/momentics/hioload-sock/transport"
)

// BenchmarkSegmentPool measures pooled segment get/release.
func BenchmarkSegmentPool(b *testing.B) {
	p := pool.NewSlabPool(1024)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s := p.GetSegment(4096)
			s.Release()
		}
	})
}

func benchmarkSend(b *testing.B, mode fake.Mode, buf *buffer.Sequence) {
	sock := fake.NewSocket()
	sock.SetMode(mode)
	s := transport.NewSocketSender(sock, transport.WithLogger(logging.Discard()))

	b.ReportAllocs()
	b.SetBytes(int64(buf.Len()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Send(buf).Wait(); err != nil {
			b.Fatal(err)
		}
		if i%1024 == 1023 {
			b.StopTimer()
			sock = fake.NewSocket()
			sock.SetMode(mode)
			s = transport.NewSocketSender(sock, transport.WithLogger(logging.Discard()))
			b.StartTimer()
		}
	}
}

// BenchmarkSendSingle measures the single-segment fast path.
func BenchmarkSendSingle(b *testing.B) {
	benchmarkSend(b, fake.Sync, buffer.Of(make([]byte, 1024)))
}

// BenchmarkSendScatter measures scatter/gather list construction.
func BenchmarkSendScatter(b *testing.B) {
	benchmarkSend(b, fake.Sync, buffer.Split(make([]byte, 1024), 128, 128, 128, 128, 128, 128, 128))
}

// BenchmarkSendDeferred measures the cross-goroutine completion bridge.
func BenchmarkSendDeferred(b *testing.B) {
	benchmarkSend(b, fake.Deferred, buffer.Split(make([]byte, 1024), 256, 256, 256))
}
