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

//----------------------------------------------------------------------
// GOODBYE
//----------------------------------------------------------------------

// GoodbyeMsg marks a voluntary close; the sender will not transmit
// further frames on the link.
type GoodbyeMsg struct {
	FrameHeader
}

// NewGoodbyeMsg creates a goodbye frame.
func NewGoodbyeMsg() *GoodbyeMsg {
	return &GoodbyeMsg{
		FrameHeader: FrameHeader{GOODBYE},
	}
}

// String returns a human-readable representation of the message.
func (m *GoodbyeMsg) String() string {
	return "Goodbye{}"
}
