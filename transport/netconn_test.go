package transport_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/buffer"
	"github.com/momentics/hioload-sock/control"
	itransport "github.com/momentics/hioload-sock/internal/transport"
	"github.com/momentics/hioload-sock/logging"
	"github.com/momentics/hioload-sock/transport"
	"github.com/momentics/hioload-sock/transport/tcp"
)

func collector(t *testing.T) (addr string, got chan []byte) {
	t.Helper()
	got = make(chan []byte, 1)
	l, err := tcp.Listen(tcp.ListenerConfig{
		Addr:        "127.0.0.1:0",
		AcceptCPU:   -1,
		ConnHandler: tcp.Collect(got),
		Logger:      logging.Discard(),
	})
	require.NoError(t, err)
	go l.Serve()
	t.Cleanup(func() { l.Close() })
	return l.Addr().String(), got
}

func received(t *testing.T, got chan []byte) []byte {
	t.Helper()
	select {
	case b := <-got:
		return b
	case <-time.After(10 * time.Second):
		t.Fatal("peer stream not collected")
		return nil
	}
}

func TestConnSenderLoopback(t *testing.T) {
	for _, portable := range []bool{false, true} {
		addr, got := collector(t)
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)

		opts := []transport.Option{transport.WithLogger(logging.Discard())}
		if portable {
			opts = append(opts, transport.WithPortableSocket())
		}
		s, err := transport.NewConnSender(conn, opts...)
		require.NoError(t, err)
		if portable {
			require.Equal(t, itransport.BackendPortable, itransport.BackendOf(s.Socket()))
		} else {
			require.Equal(t, itransport.PreferredBackend(), itransport.BackendOf(s.Socket()))
		}

		var want bytes.Buffer

		// Fast path.
		n, err := s.Send(buffer.Of([]byte("hello "))).Wait()
		require.NoError(t, err)
		require.Equal(t, 6, n)
		want.WriteString("hello ")

		// Scatter/gather, large enough to outgrow the socket buffer.
		big := bytes.Repeat([]byte("0123456789abcdef"), 1<<18)
		total, err := s.SendAll(buffer.Split(big, 1000, 70000, 1<<20, 3))
		require.NoError(t, err)
		require.Equal(t, len(big), total)
		want.Write(big)

		require.Zero(t, s.Metrics().Get(control.MetricErrorsSocket))
		require.NoError(t, s.Close())
		require.Equal(t, want.Bytes(), received(t, got), "portable=%v", portable)
	}
}

func TestConnSenderRejectsBadConfig(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	cfg := control.DefaultConfig()
	cfg.PollTimeout = 0
	_, err := transport.NewConnSender(a, transport.WithConfig(cfg))
	require.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = transport.NewConnSender(nil)
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestConnSenderAfterPeerReset(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	dialed := make(chan struct{})
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		<-dialed
		c.(*net.TCPConn).SetLinger(0)
		c.Close()
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	close(dialed)
	require.NoError(t, err)
	s, err := transport.NewConnSender(conn, transport.WithLogger(logging.Discard()))
	require.NoError(t, err)
	defer s.Close()

	chunk := bytes.Repeat([]byte("r"), 64<<10)
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		_, err = s.Send(buffer.Of(chunk)).Wait()
		if err != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.Error(t, err)
	require.True(t, api.IsSocketError(err))
	require.Positive(t, s.Metrics().Get(control.MetricErrorsSocket))
}
