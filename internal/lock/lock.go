package lock

import (
	"fmt"
	"net"
)

// ErrAlreadyRunning is returned when another process holds the lock port.
var ErrAlreadyRunning = fmt.Errorf("another instance is already running")

// Lock guards against concurrent instances by holding a loopback TCP port
// for the lifetime of the process.
type Lock struct {
	ln net.Listener
}

// Acquire binds the port on 127.0.0.1. It fails with ErrAlreadyRunning if
// the port is taken.
func Acquire(port int) (*Lock, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, ErrAlreadyRunning
	}

	return &Lock{ln: ln}, nil
}

// Release frees the port.
func (l *Lock) Release() error {
	return l.ln.Close()
}
