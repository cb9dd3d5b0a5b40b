// This file is part of overnet, a peer-to-peer message-overlay in Golang.
// Copyright (C) 2022-2023 Bernd Fix  >Y<
//
// overnet is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// overnet is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"overnet/message"

	"github.com/bfix/gospel/data"
)

// Codec error codes. ErrCodec marks a malformed frame as opposed to a
// transport failure; check with errors.Is.
var (
	ErrCodec          = errors.New("malformed frame")
	ErrCodecFrameSize = fmt.Errorf("%w: invalid frame size", ErrCodec)
	ErrCodecShortSend = errors.New("incomplete frame write")
)

// MaxFrameSize is the largest acceptable frame body (on read and on
// write). Both peers operate with the same fixed limit.
const MaxFrameSize = 65536

//----------------------------------------------------------------------
// Framed connection
//----------------------------------------------------------------------

// FrameConn turns an ordered, reliable byte stream into an ordered
// sequence of typed protocol frames and back. Each frame travels as a
// big-endian 32-bit length followed by the serialized frame body.
// Frames are written to the wire in submission order and delivered
// whole, in wire order, or not at all.
type FrameConn struct {
	conn    net.Conn
	wmtx    sync.Mutex // one frame write at a time
	onClose sync.Once
}

// NewFrameConn wraps a stream connection for frame exchange.
func NewFrameConn(conn net.Conn) *FrameConn {
	return &FrameConn{
		conn: conn,
	}
}

// ReadFrame returns the next frame from the stream. It blocks until a
// whole frame is available; a transport failure or a body that cannot
// be decoded ends the frame sequence.
func (c *FrameConn) ReadFrame() (frame message.Frame, err error) {
	// read length prefix
	var size uint32
	if err = binary.Read(c.conn, binary.BigEndian, &size); err != nil {
		return
	}
	if size < 2 || size > MaxFrameSize {
		return nil, ErrCodecFrameSize
	}
	// read frame body; decoded frames may keep references into the
	// buffer, so it is allocated per frame.
	body := make([]byte, size)
	if _, err = io.ReadFull(c.conn, body); err != nil {
		return
	}
	// decode tagged frame
	var fh *message.FrameHeader
	if fh, err = message.GetFrameHeader(body); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCodec, err.Error())
	}
	if frame, err = message.NewEmptyFrame(fh.Type()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCodec, err.Error())
	}
	if err = data.Unmarshal(frame, body); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCodec, err.Error())
	}
	return frame, nil
}

// WriteFrame submits a whole frame to the stream.
func (c *FrameConn) WriteFrame(frame message.Frame) (err error) {
	// serialize frame body
	var body []byte
	if body, err = data.Marshal(frame); err != nil {
		return fmt.Errorf("%w: %s", ErrCodec, err.Error())
	}
	if len(body) > MaxFrameSize {
		return ErrCodecFrameSize
	}
	// assemble length prefix and body into one buffer so a frame hits
	// the wire with a single write call.
	pkt := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(pkt[:4], uint32(len(body)))
	copy(pkt[4:], body)

	// only one frame writer at a time
	c.wmtx.Lock()
	defer c.wmtx.Unlock()
	var n int
	if n, err = c.conn.Write(pkt); err != nil {
		return
	}
	if n != len(pkt) {
		err = ErrCodecShortSend
	}
	return
}

// Close the underlying connection. Safe to call from multiple
// goroutines; later calls are no-ops.
func (c *FrameConn) Close() (err error) {
	c.onClose.Do(func() {
		err = c.conn.Close()
	})
	return
}

// RemoteAddr returns the transport address of the peer (diagnostics).
func (c *FrameConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
