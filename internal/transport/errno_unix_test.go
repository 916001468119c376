//go:build unix

package transport

import (
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sock/api"
)

func TestClassifyErrno(t *testing.T) {
	wrap := func(errno syscall.Errno) error {
		return &net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", errno)}
	}
	assert.Equal(t, api.SocketErrorConnectionReset, api.SocketErrorCodeOf(classify("write", wrap(unix.ECONNRESET))))
	assert.Equal(t, api.SocketErrorBrokenPipe, api.SocketErrorCodeOf(classify("write", wrap(unix.EPIPE))))
	assert.Equal(t, api.SocketErrorConnectionAborted, api.SocketErrorCodeOf(classify("write", unix.ECONNABORTED)))
	assert.Equal(t, api.SocketErrorNotConnected, api.SocketErrorCodeOf(classify("write", unix.ENOTCONN)))
	assert.Equal(t, api.SocketErrorTimedOut, api.SocketErrorCodeOf(classify("write", unix.ETIMEDOUT)))
	assert.Equal(t, api.SocketErrorUnknown, api.SocketErrorCodeOf(classify("write", unix.ENOMEM)))
}
