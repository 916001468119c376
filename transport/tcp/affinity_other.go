//go:build !linux
// +build !linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package tcp

import "github.com/momentics/hioload-sock/api"

func setCPUAffinity(cpu int) error {
	return api.ErrNotSupported
}
