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

package core

import (
	"context"
	"fmt"

	"overnet/message"
	"overnet/transport"
	"overnet/util"

	"github.com/bfix/gospel/logger"
)

// Session states
const (
	SESSION_INIT       = iota // fresh connection, nothing sent
	SESSION_SENT_HELLO        // our Hello is out, waiting for theirs
	SESSION_READY             // handshake complete, link handed over
	SESSION_ERROR             // terminated on protocol violation
	SESSION_CLOSED            // terminated
)

//----------------------------------------------------------------------
// Session state machine (per connection)
//----------------------------------------------------------------------

// Session performs the Hello handshake on a fresh connection. On
// success the connection is handed to the reactor, which owns the
// outbound side from then on and pumps the inbound side; the session
// itself never retries and never reconnects.
type Session struct {
	self  util.AgentID         // local identity
	addr  *util.Addr           // remote address (diagnostics)
	conn  *transport.FrameConn // framed connection
	out   chan<- *Event        // reactor event queue
	state int                  // current session state
}

// NewSession prepares the handshake on a just-established connection.
func NewSession(self util.AgentID, addr *util.Addr, conn *transport.FrameConn, out chan<- *Event) *Session {
	return &Session{
		self:  self,
		addr:  addr,
		conn:  conn,
		out:   out,
		state: SESSION_INIT,
	}
}

// Run the handshake: announce our identity, require the peer's Hello
// as the first inbound frame and emit Ready to the reactor. Any other
// first frame draws an advisory Error frame and closes the
// connection; no Ready is emitted in that case.
func (s *Session) Run(ctx context.Context) {
	// run watch dog for termination
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()
	// INIT -> SENT_HELLO
	if err := s.conn.WriteFrame(message.NewHelloMsg(s.self)); err != nil {
		logger.Printf(logger.WARN, "[sess] %s: Hello send failed: %s", s.addr, err.Error())
		s.terminate(SESSION_CLOSED)
		return
	}
	s.state = SESSION_SENT_HELLO

	// wait for the peer's announcement
	frame, err := s.conn.ReadFrame()
	if err != nil {
		logger.Printf(logger.DBG, "[sess] %s: closed during handshake: %s", s.addr, err.Error())
		s.terminate(SESSION_CLOSED)
		return
	}
	hello, ok := frame.(*message.HelloMsg)
	if !ok {
		// SENT_HELLO -> ERROR: advisory diagnostic, then close
		detail := fmt.Sprintf("Expected Hello, got %s", message.TypeName(frame.Header().Type()))
		if err := s.conn.WriteFrame(message.NewErrorMsg(detail)); err != nil {
			logger.Printf(logger.DBG, "[sess] %s: error frame not sent: %s", s.addr, err.Error())
		}
		logger.Printf(logger.WARN, "[sess] %s: %s", s.addr, detail)
		s.terminate(SESSION_ERROR)
		return
	}
	// SENT_HELLO -> READY: hand the connection to the reactor.
	s.state = SESSION_READY
	logger.Printf(logger.INFO, "[sess] %s: peer %s ready", s.addr, hello.Peer())
	ev := &Event{
		ID:   EV_READY,
		Addr: s.addr,
		Peer: hello.Peer(),
		Conn: s.conn,
	}
	select {
	case s.out <- ev:
	case <-ctx.Done():
		s.terminate(SESSION_CLOSED)
	}
}

// terminate closes the connection and settles the final state.
func (s *Session) terminate(state int) {
	s.state = state
	s.conn.Close()
}

//----------------------------------------------------------------------
// Inbound pump for a ready link (spawned by the reactor)
//----------------------------------------------------------------------

// pump forwards inbound frames from a ready link into the reactor
// event queue. Payload messages become EV_MESSAGE events; a Hello in
// Ready state is a protocol error, a received Error frame or Goodbye
// terminates, as does any transport or codec failure. Unless the
// agent is shutting down, exactly one EV_CLOSED is emitted as the last
// event for the link; once the context is done, none is emitted.
func pump(ctx context.Context, link int, conn *transport.FrameConn, out chan<- *Event) {
loop:
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			logger.Printf(logger.DBG, "[link-%d] read ended: %s", link, err.Error())
			break
		}
		switch m := frame.(type) {
		case message.Msg:
			ev := &Event{
				ID:   EV_MESSAGE,
				Link: link,
				Msg:  m,
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				break loop
			}
		case *message.HelloMsg:
			if err := conn.WriteFrame(message.NewErrorMsg("Unexpected Hello")); err != nil {
				logger.Printf(logger.DBG, "[link-%d] error frame not sent: %s", link, err.Error())
			}
			logger.Printf(logger.WARN, "[link-%d] unexpected Hello from %s", link, m.Peer())
			break loop
		case *message.ErrorMsg:
			logger.Printf(logger.WARN, "[link-%d] remote error: %s", link, m.Text())
			break loop
		case *message.GoodbyeMsg:
			logger.Printf(logger.INFO, "[link-%d] goodbye received", link)
			break loop
		}
	}
	conn.Close()
	ev := &Event{
		ID:   EV_CLOSED,
		Link: link,
	}
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}
