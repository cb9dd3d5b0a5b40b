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

package message

import (
	"fmt"

	"overnet/util"
)

//----------------------------------------------------------------------
// HELLO
//
// First frame on a fresh link in either direction: announces the
// identity of the sending agent. Any other frame before HELLO is a
// protocol error.
//----------------------------------------------------------------------

// HelloMsg announces the sender's identity on a new link.
type HelloMsg struct {
	FrameHeader
	IDLen uint16 `order:"big"`  // length of identity string
	ID    []byte `size:"IDLen"` // agent identity
}

// NewHelloMsg creates a HELLO frame for a given agent identity.
func NewHelloMsg(id util.AgentID) *HelloMsg {
	return &HelloMsg{
		FrameHeader: FrameHeader{HELLO},
		IDLen:       uint16(len(id)),
		ID:          []byte(id),
	}
}

// Peer returns the announced agent identity.
func (m *HelloMsg) Peer() util.AgentID {
	return util.AgentID(m.ID)
}

// String returns a human-readable representation of the message.
func (m *HelloMsg) String() string {
	return fmt.Sprintf("Hello{%s}", m.ID)
}
