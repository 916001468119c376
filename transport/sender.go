// File: transport/sender.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SocketSender issues completion-based sends of borrowed logical buffers.

package transport

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/nats-io/nuid"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/logging"
)

// SocketSender transmits logical buffers over one connected socket.
//
// At most one send may be outstanding: the Awaitable returned by Send must
// be waited on before Send is called again. A violation panics with
// api.ErrAlreadyArmed. The buffer passed to Send is borrowed until Wait
// returns; the sender keeps no reference to it afterwards.
type SocketSender struct {
	id     string
	socket api.AsyncSocket
	owned  bool

	req       *api.SendRequest
	list      *ScatterList
	awaitable *Awaitable

	inflight atomic.Bool
	gen      atomic.Uint64
	closed   atomic.Bool

	log     *slog.Logger
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes

	cSends, cSingle, cScatter, cEmpty *atomic.Int64
	cSync, cDeferred, cDup            *atomic.Int64
	cBytes, cShort                    *atomic.Int64
	cSockErr, cUnsupported            *atomic.Int64
}

// NewSocketSender creates a sender over socket. The socket is not owned:
// Close leaves it open.
func NewSocketSender(socket api.AsyncSocket, opts ...Option) *SocketSender {
	st := defaultSettings()
	for _, opt := range opts {
		opt(&st)
	}
	return newSocketSender(socket, false, st)
}

func newSocketSender(socket api.AsyncSocket, owned bool, st settings) *SocketSender {
	if st.id == "" {
		st.id = nuid.Next()
	}
	if st.logger == nil {
		st.logger = logging.Default()
	}
	if st.metrics == nil {
		st.metrics = control.NewMetricsRegistry()
	}

	s := &SocketSender{
		id:        st.id,
		socket:    socket,
		owned:     owned,
		req:       &api.SendRequest{},
		list:      NewScatterList(st.scatterCap),
		awaitable: newAwaitable(),
		log:       st.logger.With("sender", st.id),
		metrics:   st.metrics,
		probes:    st.probes,
	}
	s.req.UserToken = s
	s.req.Completed = func(req *api.SendRequest, gen uint64) {
		req.UserToken.(*SocketSender).complete(true, gen)
	}

	mr := s.metrics
	s.cSends = mr.Counter(control.MetricSends)
	s.cSingle = mr.Counter(control.MetricSendsSingle)
	s.cScatter = mr.Counter(control.MetricSendsScatter)
	s.cEmpty = mr.Counter(control.MetricSendsEmpty)
	s.cSync = mr.Counter(control.MetricCompletionsSync)
	s.cDeferred = mr.Counter(control.MetricCompletionsDeferred)
	s.cDup = mr.Counter(control.MetricCompletionsDup)
	s.cBytes = mr.Counter(control.MetricBytesSent)
	s.cShort = mr.Counter(control.MetricShortSends)
	s.cSockErr = mr.Counter(control.MetricErrorsSocket)
	s.cUnsupported = mr.Counter(control.MetricErrorsUnsupported)

	if s.probes != nil {
		s.probes.RegisterProbe(s.probeName(control.ProbeScatterListLen), func() any { return s.list.Len() })
		s.probes.RegisterProbe(s.probeName(control.ProbeAwaitableState), func() any { return s.awaitable.State().String() })
	}
	return s
}

func (s *SocketSender) probeName(name string) string { return s.id + "." + name }

// ID returns the sender identifier used in logs and probe names.
func (s *SocketSender) ID() string { return s.id }

// Socket returns the underlying socket.
func (s *SocketSender) Socket() api.AsyncSocket { return s.socket }

// Metrics returns the registry the sender records into.
func (s *SocketSender) Metrics() *control.MetricsRegistry { return s.metrics }

// Send starts transmitting buf and returns the sender's awaitable, which
// resolves with the number of bytes the OS accepted and the status. A byte
// count below buf.Len() is a short send, not an error.
//
// An empty buf resolves immediately with (0, nil) and no OS call. A segment
// that cannot be exposed resolves with api.ErrUnsupportedSegment and no OS
// call.
func (s *SocketSender) Send(buf api.LogicalBuffer) *Awaitable {
	s.awaitable.arm()

	if s.closed.Load() {
		s.awaitable.resolve(0, api.ErrSenderClosed)
		return s.awaitable
	}
	s.cSends.Add(1)

	switch {
	case buf == nil || buf.IsEmpty():
		s.cEmpty.Add(1)
		s.awaitable.resolve(0, nil)
		return s.awaitable
	case buf.IsSingleSegment():
		return s.sendSingle(buf.First())
	default:
		return s.sendScatter(buf)
	}
}

func (s *SocketSender) sendSingle(seg api.Segment) *Awaitable {
	a, err := GetArraySegment(seg)
	if err != nil {
		return s.reject(err)
	}
	s.cSingle.Add(1)
	s.req.SetBuffer(a)
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("send", "path", "single", "len", a.Count)
	}
	return s.issue()
}

func (s *SocketSender) sendScatter(buf api.LogicalBuffer) *Awaitable {
	list, err := s.list.Build(buf)
	if err != nil {
		return s.reject(err)
	}
	s.cScatter.Add(1)
	s.req.BufferList = list
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("send", "path", "scatter", "segments", len(list), "len", buf.Len())
	}
	return s.issue()
}

// reject resolves a send that never reached the OS.
func (s *SocketSender) reject(err error) *Awaitable {
	s.cUnsupported.Add(1)
	s.log.Error("send rejected", "err", err, logging.TraceAttr(err))
	s.awaitable.resolve(0, err)
	return s.awaitable
}

func (s *SocketSender) issue() *Awaitable {
	s.req.Reset()
	gen := s.gen.Add(1)
	s.req.Generation = gen
	s.inflight.Store(true)
	if !s.socket.SendAsync(s.req) {
		s.complete(false, gen)
	}
	return s.awaitable
}

// complete is the single completion routine for both synchronous and
// deferred completions. Only the first call for the current generation
// takes effect; calls carrying an older generation are dropped.
func (s *SocketSender) complete(deferred bool, gen uint64) {
	if gen != s.gen.Load() || !s.inflight.CompareAndSwap(true, false) {
		s.cDup.Add(1)
		s.log.Warn("duplicate send completion dropped", "deferred", deferred, "generation", gen)
		return
	}

	req := s.req
	requested := 0
	if req.BufferList != nil {
		for i := range req.BufferList {
			requested += req.BufferList[i].Count
		}
		s.list.Drain()
		req.BufferList = nil
	} else {
		requested = req.Buffer.Count
		req.ClearBuffer()
	}

	n, err := req.BytesTransferred, req.Err
	req.Reset()

	if deferred {
		s.cDeferred.Add(1)
	} else {
		s.cSync.Add(1)
	}
	s.cBytes.Add(int64(n))
	if err != nil {
		s.cSockErr.Add(1)
		s.log.Debug("send failed", "err", err, "bytes", n)
	} else if n < requested {
		s.cShort.Add(1)
	}

	s.awaitable.resolve(n, err)
}

// SendAll sends buf, re-issuing the remainder after short sends, and
// returns the total number of bytes transferred. A completion that moves
// zero bytes without an error stops the loop with io.ErrShortWrite.
func (s *SocketSender) SendAll(buf api.LogicalBuffer) (int, error) {
	total := 0
	for {
		n, err := s.Send(buf).Wait()
		total += n
		if err != nil {
			return total, err
		}
		if buf == nil || n >= buf.Len() {
			return total, nil
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		buf = buf.Slice(n)
	}
}

// Close stops the sender. Later sends resolve with api.ErrSenderClosed. The
// socket is closed only when the sender created it. An outstanding send
// still completes normally and must be waited on.
func (s *SocketSender) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.probes != nil {
		s.probes.UnregisterProbe(s.probeName(control.ProbeScatterListLen))
		s.probes.UnregisterProbe(s.probeName(control.ProbeAwaitableState))
	}
	if s.owned {
		return s.socket.Close()
	}
	return nil
}
