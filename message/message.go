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
	"errors"

	"github.com/bfix/gospel/data"
)

// Error codes
var (
	ErrFrameHeaderTooSmall = errors.New("frame header too small")
)

// Frame is the interface for all protocol frames exchanged between
// two linked agents.
type Frame interface {
	Header() *FrameHeader
	String() string
}

// Msg is the interface for frames that carry application payload
// (broadcast data and peer gossip). Msg frames are only valid on a
// link after the Hello handshake has completed.
type Msg interface {
	Frame
	payload() // marker
}

// FrameHeader is the common leading part of all frames (at the
// beginning of the serialized data).
type FrameHeader struct {
	FrameType uint16 `order:"big"`
}

// Header returns the embedded frame header.
func (fh *FrameHeader) Header() *FrameHeader {
	return fh
}

// Type returns the frame type (defines the layout of the body data).
func (fh *FrameHeader) Type() uint16 {
	return fh.FrameType
}

// GetFrameHeader returns the header of a frame from a byte array (as
// the serialized form).
func GetFrameHeader(b []byte) (fh *FrameHeader, err error) {
	if len(b) < 2 {
		return nil, ErrFrameHeaderTooSmall
	}
	fh = new(FrameHeader)
	err = data.Unmarshal(fh, b)
	return
}
