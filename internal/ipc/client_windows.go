//go:build windows

// Package ipc provides the Windows named-pipe client connection.
package ipc

import (
	"net"
	"syscall"
	"time"
)

// dialWindows establishes a Windows named pipe connection, retrying while
// the pipe is transiently busy.
func dialWindows(socketPath string, timeout time.Duration) (net.Conn, error) {
	pipeName := WindowsPipePath(socketPath)

	deadline := time.Now().Add(timeout)
	var handle syscall.Handle
	var err error

	for {
		handle, err = syscall.CreateFile(
			syscall.StringToUTF16Ptr(pipeName),
			syscall.GENERIC_READ|syscall.GENERIC_WRITE,
			0,
			nil,
			syscall.OPEN_EXISTING,
			0,
			0,
		)
		if err == nil {
			break
		}

		errno, ok := err.(syscall.Errno)
		if !ok || errno != 231 { // ERROR_PIPE_BUSY
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}

	return &WindowsPipeConn{
		handle:   handle,
		pipeName: pipeName,
	}, nil
}
