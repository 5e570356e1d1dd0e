package serialbridge

import (
	"fmt"
	"sync"
)

// NoByte is what the receive callback returns when no byte is available.
const NoByte int32 = -1

// SessionInfo describes the open session.
type SessionInfo struct {
	Port uint16
	Baud uint16
	Name string
}

type session struct {
	info SessionInfo
	port Port
}

// Bridge owns the serial session the engine talks through. The port handle is
// never exposed; it is reachable only via Configure, Transmit, Receive and Close.
type Bridge struct {
	config Config

	mu      sync.Mutex
	session *session
	opened  bool
	traffic Traffic
	err     error
}

// New creates a Bridge with no open session.
func New(opts ...Option) *Bridge {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Bridge{config: cfg}
}

// Configure opens the port at the given baud rate with 8N1 framing and the read
// timeout, replacing any open session. On failure no session remains and the
// error is a *PortOpenError. Each call discards the failure recorded by an
// earlier one.
func (b *Bridge) Configure(port, baud uint16) error {
	name := b.config.PortNamer(port)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.err = nil
	if b.session != nil {
		b.closeLocked()
	}

	p, err := b.config.Opener(name, int(baud))
	if err != nil {
		return &PortOpenError{Port: port, Name: name, Baud: baud, Err: err}
	}
	if err := p.SetReadTimeout(b.config.ReadTimeout); err != nil {
		_ = p.Close()
		return &PortOpenError{Port: port, Name: name, Baud: baud, Err: fmt.Errorf("set read timeout: %w", err)}
	}

	b.session = &session{
		info: SessionInfo{Port: port, Baud: baud, Name: name},
		port: p,
	}
	b.opened = true

	b.config.Logger.Info("serial port open",
		"name", name,
		"baud", baud,
		"read_timeout", b.config.ReadTimeout,
	)
	return nil
}

// Transmit writes exactly one byte.
func (b *Bridge) Transmit(c byte) error {
	p, err := b.port()
	if err != nil {
		return err
	}

	n, err := p.Write([]byte{c})
	if err != nil {
		return fmt.Errorf("transmit: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("transmit: wrote %d bytes", n)
	}

	b.count(func(t *Traffic) { t.Transmitted++ })
	return nil
}

// Receive reads one byte, blocking for at most the read timeout. It returns
// ErrTimeout when nothing arrived and a *ReadError when the read failed.
func (b *Bridge) Receive() (byte, error) {
	p, err := b.port()
	if err != nil {
		return 0, err
	}

	var buf [1]byte
	n, err := p.Read(buf[:])
	if err != nil {
		b.count(func(t *Traffic) { t.ReadErrors++ })
		return 0, &ReadError{Err: err}
	}
	if n == 0 {
		b.count(func(t *Traffic) { t.Timeouts++ })
		return 0, ErrTimeout
	}

	b.count(func(t *Traffic) { t.Received++ })
	return buf[0], nil
}

// Close releases the session. Closing with no open session does nothing.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

// Session reports the open session, if any.
func (b *Bridge) Session() (SessionInfo, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return SessionInfo{}, false
	}
	return b.session.info, true
}

// Stats returns the traffic counters.
func (b *Bridge) Stats() Traffic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.traffic
}

// Err returns the failure recorded by the most recent configure callback, if
// any.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// ClearErr forgets a recorded configure failure. Runners call it before each
// engine run so a failure belongs to the run that produced it.
func (b *Bridge) ClearErr() {
	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()
}

func (b *Bridge) closeLocked() error {
	if b.session == nil {
		return nil
	}
	s := b.session
	b.session = nil

	err := s.port.Close()
	b.config.Logger.Info("serial port closed",
		"name", s.info.Name,
		"tx_bytes", b.traffic.Transmitted,
		"rx_bytes", b.traffic.Received,
		"rx_timeouts", b.traffic.Timeouts,
		"rx_errors", b.traffic.ReadErrors,
	)
	if err != nil {
		return fmt.Errorf("close %s: %w", s.info.Name, err)
	}
	return nil
}

// port returns the current handle. I/O happens outside the lock so that Close
// can interrupt a blocked read.
func (b *Bridge) port() (Port, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		if b.opened {
			return nil, ErrClosed
		}
		return nil, ErrNotConfigured
	}
	return b.session.port, nil
}

func (b *Bridge) count(update func(*Traffic)) {
	b.mu.Lock()
	update(&b.traffic)
	snapshot := b.traffic
	b.mu.Unlock()

	if b.config.TrafficCallback != nil {
		b.config.TrafficCallback(snapshot)
	}
}

func (b *Bridge) fail(err error) {
	b.mu.Lock()
	if b.err == nil {
		b.err = err
	}
	b.mu.Unlock()
}
