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
// ERROR
//----------------------------------------------------------------------

// ErrorMsg is an advisory protocol diagnostic. Receipt terminates the
// session; delivery is best-effort and never acknowledged.
type ErrorMsg struct {
	FrameHeader
	ReasonLen uint16 `order:"big"`      // length of diagnostic text
	Reason    []byte `size:"ReasonLen"` // diagnostic text
}

// NewErrorMsg creates an error frame with a diagnostic text.
func NewErrorMsg(reason string) *ErrorMsg {
	return &ErrorMsg{
		FrameHeader: FrameHeader{ERROR},
		ReasonLen:   uint16(len(reason)),
		Reason:      []byte(reason),
	}
}

// Text returns the diagnostic text.
func (m *ErrorMsg) Text() string {
	return string(m.Reason)
}

// String returns a human-readable representation of the message.
func (m *ErrorMsg) String() string {
	return fmt.Sprintf("Error{%s}", m.Reason)
}
