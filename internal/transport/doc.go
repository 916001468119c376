// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OS socket primitives behind api.AsyncSocket. On Linux a connected TCP or
// Unix stream socket is driven by writev(2) plus a shared epoll completion
// port; everywhere else, and on request, a writer goroutine over net.Conn
// provides the same completion contract. OS failures are classified into
// api.SocketError codes here, at the boundary.

package transport
