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
	"context"
	"net"

	"overnet/util"
)

//----------------------------------------------------------------------
// Uniform listen/connect over the two address families. Downstream
// code only ever sees framed connections; nothing else is
// transport-specific.
//----------------------------------------------------------------------

// Connect dials the given address and returns the framed connection.
func Connect(addr *util.Addr) (*FrameConn, error) {
	conn, err := net.Dial(addr.Network(), addr.Endp)
	if err != nil {
		return nil, err
	}
	return NewFrameConn(conn), nil
}

//----------------------------------------------------------------------

// FrameListener accepts framed connections on a bound endpoint.
type FrameListener struct {
	id       int          // listener identifier
	addr     *util.Addr   // actual listening address
	listener net.Listener // bound listener
}

// Listen binds the given address and returns a listener for framed
// connections. The listener is closed when the context terminates.
// For a TCP address with port 0 the returned listener carries the
// actually assigned port.
func Listen(ctx context.Context, addr *util.Addr) (fl *FrameListener, err error) {
	var lc net.ListenConfig
	var l net.Listener
	if l, err = lc.Listen(ctx, addr.Network(), addr.Endp); err != nil {
		return
	}
	fl = &FrameListener{
		id:       util.NextID(),
		addr:     util.NewAddr(addr.Netw, l.Addr().String()),
		listener: l,
	}
	// run watch dog for termination
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	return
}

// Accept blocks for the next inbound connection and returns it framed
// together with the remote address.
func (fl *FrameListener) Accept() (conn *FrameConn, addr *util.Addr, err error) {
	var c net.Conn
	if c, err = fl.listener.Accept(); err != nil {
		return
	}
	return NewFrameConn(c), util.NewAddr(fl.addr.Netw, c.RemoteAddr().String()), nil
}

// Addr returns the actual listening address.
func (fl *FrameListener) Addr() *util.Addr {
	return fl.addr
}

// ID returns the listener identifier.
func (fl *FrameListener) ID() int {
	return fl.id
}

// Close the listener; pending Accept calls fail.
func (fl *FrameListener) Close() error {
	return fl.listener.Close()
}
