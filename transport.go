package gami

import (
	"bufio"
	"net"
	"sync"
	"time"
)

// transport owns one TCP connection to the PBX and provides a
// line-framed read/write abstraction. It is single-consumer on the read
// side: exactly one goroutine (the Session's read loop) may call
// readPacket. Writes are serialized so that one complete action packet is
// flushed before any further write begins.
type transport struct {
	conn net.Conn
	r    *bufio.Reader

	writeMu sync.Mutex
}

// newTransport wraps an already-established connection.
func newTransport(conn net.Conn) *transport {
	return &transport{conn: conn, r: bufio.NewReader(conn)}
}

// dialTimeout establishes a new TCP connection to addr within timeout.
func dialTimeout(addr string, timeout time.Duration) (*transport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return newTransport(conn), nil
}

// writePacket flushes p's wire encoding in one serialized write.
func (t *transport) writePacket(p *Packet) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := t.conn.Write(p.Encode())
	return err
}

// setReadDeadline arms a deadline for the next read operations; a zero
// value clears it.
func (t *transport) setReadDeadline(d time.Time) error {
	return t.conn.SetReadDeadline(d)
}

// close shuts down the underlying connection.
func (t *transport) close() error {
	return t.conn.Close()
}
