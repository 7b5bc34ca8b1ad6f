// Package usbloop provides an in-memory duplex byte pipe standing in for
// the physical USB link between host and device, for the device
// simulator and end-to-end tests. It wraps pion's test.Bridge the way
// the ambient transport package this module is grounded on wraps it for
// UDP, minus the network-condition simulation that only makes sense for
// a lossy real link.
package usbloop

import (
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/test"
)

// processInterval is how often the background goroutine drains queued
// bytes in both directions.
const processInterval = time.Millisecond

// Loop is a bidirectional in-memory connection between a host-side and a
// device-side usbproto.Transport endpoint.
type Loop struct {
	bridge *test.Bridge

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Loop with automatic background delivery already running.
func New() *Loop {
	l := &Loop{
		bridge: test.NewBridge(),
		stopCh: make(chan struct{}),
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(processInterval)
		defer ticker.Stop()
		for {
			select {
			case <-l.stopCh:
				return
			case <-ticker.C:
				l.bridge.Tick()
			}
		}
	}()
	return l
}

// HostConn returns the host-side endpoint.
func (l *Loop) HostConn() net.Conn {
	return l.bridge.GetConn0()
}

// DeviceConn returns the device-side endpoint.
func (l *Loop) DeviceConn() net.Conn {
	return l.bridge.GetConn1()
}

// Close stops background delivery and closes both endpoints.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.stopCh)
	l.mu.Unlock()

	l.wg.Wait()

	err0 := l.bridge.GetConn0().Close()
	err1 := l.bridge.GetConn1().Close()
	if err0 != nil {
		return err0
	}
	return err1
}
