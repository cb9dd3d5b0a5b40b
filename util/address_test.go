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
	"testing"
)

func TestParseAddr(t *testing.T) {
	cases := []struct {
		spec, netw, endp string
	}{
		{"tcp+127.0.0.1:2086", "tcp", "127.0.0.1:2086"},
		{"unix+/tmp/overnet.sock", "unix", "/tmp/overnet.sock"},
	}
	for _, c := range cases {
		addr, err := ParseAddr(c.spec)
		if err != nil {
			t.Fatal(err)
		}
		if addr.Network() != c.netw || addr.Endp != c.endp {
			t.Fatalf("%s parsed as (%s,%s)", c.spec, addr.Netw, addr.Endp)
		}
		if addr.String() != c.spec {
			t.Fatalf("%s rendered as %s", c.spec, addr)
		}
	}
}

func TestParseAddrInvalid(t *testing.T) {
	for _, spec := range []string{"", "tcp", "tcp+", "udp+1.2.3.4:5", "http+x"} {
		if _, err := ParseAddr(spec); err == nil {
			t.Fatalf("accepted %q", spec)
		}
	}
}
