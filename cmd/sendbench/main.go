// File: cmd/sendbench/main.go
// Package main
// Loopback send benchmark: pushes multi-segment pooled buffers through a
// SocketSender to an echo listener and verifies the echoed stream.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/time/rate"

	"github.com/momentics/hioload-sock/buffer"
	"github.com/momentics/hioload-sock/control"
	itransport "github.com/momentics/hioload-sock/internal/transport"
	"github.com/momentics/hioload-sock/logging"
	"github.com/momentics/hioload-sock/pool"
	"github.com/momentics/hioload-sock/transport"
	"github.com/momentics/hioload-sock/transport/tcp"
)

func main() {
	var (
		count    = flag.Int("count", 10000, "number of logical buffers to send")
		segments = flag.Int("segments", 8, "segments per buffer")
		size     = flag.Int("size", 4096, "bytes per segment")
		perSec   = flag.Float64("rate", 0, "buffers per second, 0 for unlimited")
		portable = flag.Bool("portable", false, "force the goroutine-driven socket")
		cpu      = flag.Int("cpu", -1, "pin the echo accept loop to this CPU")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetDefault(log)

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Info(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		log.Warn("maxprocs", "err", err)
	}
	defer undo()

	if err := run(log, *count, *segments, *size, *perSec, *portable, *cpu); err != nil {
		log.Error("sendbench failed", "err", err, logging.TraceAttr(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, count, segments, size int, perSec float64, portable bool, cpu int) error {
	ln, err := tcp.Listen(tcp.ListenerConfig{Addr: "127.0.0.1:0", AcceptCPU: cpu, Logger: log})
	if err != nil {
		return err
	}
	go func() {
		if err := ln.Serve(); err != nil {
			log.Error("echo listener", "err", err)
		}
	}()
	defer ln.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		return err
	}

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)

	opts := []transport.Option{
		transport.WithLogger(log),
		transport.WithMetrics(metrics),
		transport.WithProbes(probes),
		transport.WithScatterCapacity(segments),
	}
	if portable {
		opts = append(opts, transport.WithPortableSocket())
	}
	sender, err := transport.NewConnSender(conn, opts...)
	if err != nil {
		conn.Close()
		return err
	}
	defer sender.Close()
	log.Info("sender ready", "id", sender.ID(), "backend", itransport.BackendOf(sender.Socket()))

	expect := make(chan []byte, 64)
	verified := make(chan error, 1)
	go verify(conn, expect, verified)

	limit := rate.Inf
	if perSec > 0 {
		limit = rate.Limit(perSec)
	}
	limiter := rate.NewLimiter(limit, 1)
	segPool := pool.Default()

	start := time.Now()
	var total int64
	for i := 0; i < count; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			return err
		}

		segs := make([]*pool.Segment, segments)
		buf := buffer.NewSequence()
		for j := range segs {
			segs[j] = segPool.GetSegment(size)
			fill(segs[j].Bytes(), i, j)
			buf.Append(segs[j])
		}
		expect <- buffer.Flatten(buf)

		n, err := sender.SendAll(buf)
		for _, s := range segs {
			s.Release()
		}
		total += int64(n)
		if err != nil {
			return err
		}
	}
	close(expect)

	if err := <-verified; err != nil {
		return err
	}
	elapsed := time.Since(start)

	log.Info("done",
		"buffers", count,
		"bytes", total,
		"elapsed", elapsed,
		"MiB/s", float64(total)/(1<<20)/elapsed.Seconds(),
	)
	for k, v := range metrics.GetSnapshot() {
		log.Info("metric", "name", k, "value", v)
	}
	for k, v := range probes.DumpState() {
		log.Debug("probe", "name", k, "value", v)
	}
	st := segPool.Stats()
	log.Info("pool", "alloc", st.TotalAlloc, "reuse", st.TotalReuse, "in_use", st.InUse)
	return nil
}

func fill(b []byte, i, j int) {
	for k := range b {
		b[k] = byte(i*31 + j*7 + k)
	}
}

// verify reads the echoed stream back and compares it buffer by buffer.
// After a failure the rest of the stream is discarded so the sender never
// stalls on a full echo path.
func verify(r io.Reader, expect <-chan []byte, done chan<- error) {
	var got []byte
	i := 0
	for want := range expect {
		if cap(got) < len(want) {
			got = make([]byte, len(want))
		}
		got = got[:len(want)]
		if _, err := io.ReadFull(r, got); err != nil {
			done <- errors.Wrap(err, "read echo")
			discard(r, expect)
			return
		}
		if !bytes.Equal(got, want) {
			done <- errors.Errorf("echo mismatch in buffer %d", i)
			discard(r, expect)
			return
		}
		i++
	}
	done <- nil
}

func discard(r io.Reader, expect <-chan []byte) {
	go io.Copy(io.Discard, r)
	for range expect {
	}
}
