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

// Frame types on the wire. The assignment is fixed; both peers of a
// link must use the same values.
const (
	//------------------------------------------------------------------
	// Handshake and link control
	//------------------------------------------------------------------

	HELLO   = 1 // identity announcement (handshake only)
	ERROR   = 4 // protocol diagnostic, strictly advisory
	GOODBYE = 5 // voluntary close marker

	//------------------------------------------------------------------
	// Application payload (only valid after handshake)
	//------------------------------------------------------------------

	BROADCAST = 2 // one textual broadcast datum
	PEERS     = 3 // sender's peer table as gossip
)

// TypeName returns a human-readable name for a frame type.
func TypeName(t uint16) string {
	switch t {
	case HELLO:
		return "Hello"
	case BROADCAST:
		return "Broadcast"
	case PEERS:
		return "Peers"
	case ERROR:
		return "Error"
	case GOODBYE:
		return "Goodbye"
	}
	return "Unknown"
}
