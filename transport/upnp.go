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

package transport

import (
	"errors"

	"github.com/bfix/gospel/network"
)

// Transport layer error codes
var (
	ErrTransNoUPNP = errors.New("no UPnP available")
)

//----------------------------------------------------------------------
// Package local reference to PortMapper instance

var (
	upnpManager *network.PortMapper
)

// initialize at start-up; a missing router degrades to plain listening.
func init() {
	upnpManager, _ = network.NewPortMapper("overnet")
}

//----------------------------------------------------------------------

// ForwardOpen returns a local address for listening that will receive
// traffic from a port forward handled by UPnP on the router.
func ForwardOpen(protocol string, port int) (id, local, remote string, err error) {
	if upnpManager == nil {
		err = ErrTransNoUPNP
		return
	}
	return upnpManager.Assign(protocol, port)
}

// ForwardClose releases a specific port forwarding.
func ForwardClose(id string) error {
	if upnpManager == nil {
		return ErrTransNoUPNP
	}
	return upnpManager.Unassign(id)
}

// ForwardShutdown releases all mappings at process end.
func ForwardShutdown() {
	if upnpManager != nil {
		upnpManager.Close()
	}
}
