package peerconn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"
)

const minReadSize = 16 << 10

// Drives a Conn over a net.Conn from the calling goroutine until the connection closes. The
// net.Conn is closed on return. Returns the reason the Conn closed.
func Run(ctx context.Context, nc net.Conn, c *Conn) error {
	defer nc.Close()
	d := &driver{nc: nc}
	go d.watch(ctx, c)
	exp, err := c.Start(d)
	for err == nil {
		exp, err = d.step(ctx, c, exp)
	}
	if errors.Is(err, ErrClosed) {
		return c.Err()
	}
	return err
}

// The Transport for a net.Conn.
type driver struct {
	nc  net.Conn
	buf []byte
	off int
	out bytes.Buffer

	// Set when a read was interrupted so the Conn could handle posted messages.
	woken atomic.Bool
}

func (d *driver) Input() []byte {
	return d.buf[d.off:]
}

func (d *driver) Consume(n int) {
	d.off += n
	if d.off == len(d.buf) {
		d.buf = d.buf[:0]
		d.off = 0
	}
}

func (d *driver) Write(b []byte) {
	d.out.Write(b)
}

// Interrupts blocking reads when messages are posted or ctx is done.
func (d *driver) watch(ctx context.Context, c *Conn) {
	for {
		select {
		case <-c.closed.Done():
			return
		case <-ctx.Done():
			d.nc.SetDeadline(time.Unix(1, 0))
			return
		case <-c.Wakeups():
			d.woken.Store(true)
			d.nc.SetReadDeadline(time.Unix(1, 0))
		}
	}
}

// Reads at least once, up to the free space in buf, growing it so that n more bytes would fit.
func (d *driver) fill(n int) error {
	if d.off != 0 {
		d.buf = d.buf[:copy(d.buf, d.buf[d.off:])]
		d.off = 0
	}
	if need := len(d.buf) + max(n, minReadSize); cap(d.buf) < need {
		d.buf = append(make([]byte, 0, need), d.buf...)
	}
	read, err := d.nc.Read(d.buf[len(d.buf):cap(d.buf)])
	d.buf = d.buf[:len(d.buf)+read]
	if read != 0 && err != nil {
		// Let the Conn see what arrived before the error. The error repeats on the next read.
		return nil
	}
	return err
}

// Makes progress toward the expectation, and calls into the Conn once something happens.
func (d *driver) step(ctx context.Context, c *Conn, exp Expectation) (Expectation, error) {
	if err := ctx.Err(); err != nil {
		return c.close(err)
	}
	if d.out.Len() != 0 {
		d.nc.SetWriteDeadline(exp.Deadline)
		_, err := d.out.WriteTo(d.nc)
		if err != nil {
			return d.ioError(ctx, c, err, false)
		}
	}
	if exp.Kind == ExpectFlush {
		return c.Flushed(d)
	}
	if d.woken.Swap(false) {
		return c.Wakeup(d)
	}
	if len(d.Input()) >= exp.N {
		return c.BytesReady(d)
	}
	d.nc.SetReadDeadline(exp.Deadline)
	// The watcher may have interrupted before the deadline was reset.
	if d.woken.Load() {
		return exp, nil
	}
	if err := ctx.Err(); err != nil {
		return c.close(err)
	}
	if err := d.fill(exp.N - len(d.Input())); err != nil {
		return d.ioError(ctx, c, err, true)
	}
	return exp, nil
}

func (d *driver) ioError(ctx context.Context, c *Conn, err error, reading bool) (Expectation, error) {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		if ctx.Err() != nil {
			return c.close(ctx.Err())
		}
		if reading && d.woken.Load() {
			return c.expect, nil
		}
		return c.Timeout(d)
	case errors.Is(err, io.EOF):
		return c.close(ErrPeerClosed)
	default:
		return c.close(err)
	}
}
