// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements a minimal loopback TCP acceptor with echo and sink
// handlers, used to exercise senders end to end.
package tcp
