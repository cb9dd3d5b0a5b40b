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

package util

import (
	"fmt"
	"os"
	"sync"
)

//----------------------------------------------------------------------
// Agent identity
//----------------------------------------------------------------------

// AgentID is the identity of an agent in the overlay. It is an opaque
// string value; two identities refer to the same agent iff their
// strings are equal. AgentID is comparable and usable as a map key.
type AgentID string

// NewAgentID wraps a caller-supplied name into an agent identity.
func NewAgentID(name string) AgentID {
	return AgentID(name)
}

// LocalAgentID derives the identity of the running process from the
// host name and the process identifier as "<host>+<pid>".
func LocalAgentID() AgentID {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return AgentID(fmt.Sprintf("%s+%d", host, os.Getpid()))
}

// String returns the identity in human-readable form.
func (id AgentID) String() string {
	return string(id)
}

//----------------------------------------------------------------------
// Process-unique identifiers
//----------------------------------------------------------------------

var (
	_id    = 0
	_idMtx sync.Mutex
)

// NextID generates the next unique identifier (unique in the running
// process/application).
func NextID() int {
	_idMtx.Lock()
	defer _idMtx.Unlock()
	_id++
	return _id
}
