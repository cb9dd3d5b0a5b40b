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
)

//----------------------------------------------------------------------
// BROADCAST
//----------------------------------------------------------------------

// BroadcastMsg carries one textual broadcast datum. A received
// broadcast is delivered to local observers only and is not relayed
// to other links; an embedder-originated broadcast goes to all links.
type BroadcastMsg struct {
	FrameHeader
	DataLen uint16 `order:"big"`    // length of broadcast data
	Data    []byte `size:"DataLen"` // broadcast data
}

// NewBroadcastMsg creates a broadcast frame for the given datum.
func NewBroadcastMsg(s string) *BroadcastMsg {
	return &BroadcastMsg{
		FrameHeader: FrameHeader{BROADCAST},
		DataLen:     uint16(len(s)),
		Data:        []byte(s),
	}
}

// Payload returns the broadcast datum.
func (m *BroadcastMsg) Payload() string {
	return string(m.Data)
}

// String returns a human-readable representation of the message.
func (m *BroadcastMsg) String() string {
	return fmt.Sprintf("Broadcast{%s}", m.Data)
}

func (m *BroadcastMsg) payload() {}
