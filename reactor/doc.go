// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the epoll readiness loop that drives deferred
// send completions on Linux. Other platforms get a stub.
package reactor
