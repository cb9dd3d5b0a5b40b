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
	"strings"

	"overnet/util"
)

//----------------------------------------------------------------------
// PEERS
//
// Gossip frame: the sender's current peer table as a list of
// (identity, hop-count) pairs. Distances are the sender's local
// values; the receiver adds one hop for the link the gossip arrived
// on.
//----------------------------------------------------------------------

// PeerEntry is one (identity, hop-count) pair in a gossip frame.
type PeerEntry struct {
	Hops  uint32 `order:"big"`  // distance as seen by the sender
	IDLen uint16 `order:"big"`  // length of identity string
	ID    []byte `size:"IDLen"` // agent identity
}

// NewPeerEntry creates a gossip list entry.
func NewPeerEntry(id util.AgentID, hops int) *PeerEntry {
	return &PeerEntry{
		Hops:  uint32(hops),
		IDLen: uint16(len(id)),
		ID:    []byte(id),
	}
}

// Peer returns the identity of the entry.
func (e *PeerEntry) Peer() util.AgentID {
	return util.AgentID(e.ID)
}

// PeersMsg carries the sender's peer table.
type PeersMsg struct {
	FrameHeader
	Count uint16       `order:"big"`  // number of list entries
	List  []*PeerEntry `size:"Count"` // (identity, hop-count) pairs
}

// NewPeersMsg creates a gossip frame from a list of entries.
func NewPeersMsg(list []*PeerEntry) *PeersMsg {
	if list == nil {
		list = make([]*PeerEntry, 0)
	}
	return &PeersMsg{
		FrameHeader: FrameHeader{PEERS},
		Count:       uint16(len(list)),
		List:        list,
	}
}

// String returns a human-readable representation of the message.
func (m *PeersMsg) String() string {
	entries := make([]string, len(m.List))
	for i, e := range m.List {
		entries[i] = fmt.Sprintf("%s:%d", e.ID, e.Hops)
	}
	return fmt.Sprintf("Peers{%s}", strings.Join(entries, ","))
}

func (m *PeersMsg) payload() {}
