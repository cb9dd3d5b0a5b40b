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

// NewEmptyFrame creates a new empty frame object for the given type.
func NewEmptyFrame(frameType uint16) (Frame, error) {
	switch frameType {
	case HELLO:
		return NewHelloMsg(""), nil
	case BROADCAST:
		return NewBroadcastMsg(""), nil
	case PEERS:
		return NewPeersMsg(nil), nil
	case ERROR:
		return NewErrorMsg(""), nil
	case GOODBYE:
		return NewGoodbyeMsg(), nil
	}
	return nil, fmt.Errorf("unknown frame type %d", frameType)
}
