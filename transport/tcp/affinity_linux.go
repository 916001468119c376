//go:build linux
// +build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp - Linux-specific CPU affinity implementation.

package tcp

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// setCPUAffinity locks the calling goroutine to its OS thread and pins
// that thread to cpu.
func setCPUAffinity(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return errors.Wrapf(unix.SchedSetaffinity(0, &set), "pin cpu %d", cpu)
}
