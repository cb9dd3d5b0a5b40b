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
	"overnet/message"
	"overnet/transport"
	"overnet/util"
)

//----------------------------------------------------------------------
// Reactor events
//----------------------------------------------------------------------

// Event types: session lifecycle, embedder requests and control
// commands share one multiplexed input stream into the reactor.
const (
	EV_READY     = iota // handshake completed on a new connection
	EV_MESSAGE          // payload message received on a live link
	EV_CLOSED           // link torn down
	EV_BROADCAST        // request: broadcast to all live links
	EV_OBSERVE          // request: attach an observer sink
	EV_STATUS           // request: snapshot reactor state
	EV_CONNECT          // control: run a session over a dialed connection
	EV_LISTEN           // control: accept sessions from a listener
)

// Event is one input to the reactor. Only the fields of the
// respective event type are set.
type Event struct {
	ID       int                      // event type
	Link     int                      // link id (EV_MESSAGE, EV_CLOSED)
	Addr     *util.Addr               // remote address (EV_READY, EV_CONNECT)
	Peer     util.AgentID             // remote identity (EV_READY)
	Msg      message.Msg              // payload message (EV_MESSAGE)
	Conn     *transport.FrameConn     // framed connection (EV_READY, EV_CONNECT)
	Listener *transport.FrameListener // bound listener (EV_LISTEN)
	Data     string                   // broadcast datum (EV_BROADCAST)
	Obs      chan string              // observer sink (EV_OBSERVE)
	Stat     chan *StatusInfo         // status reply sink (EV_STATUS)
}

//----------------------------------------------------------------------
// Status snapshot (diagnostics)
//----------------------------------------------------------------------

// LinkInfo describes one live link.
type LinkInfo struct {
	Link int          // link identifier
	Peer util.AgentID // remote identity
	Addr string       // remote address (human-readable)
}

// StatusInfo is a snapshot of the reactor state.
type StatusInfo struct {
	ID    util.AgentID // local identity
	Links []LinkInfo   // live links
	Peers []PeerDist   // best-distance peer table
}
