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
	"bytes"
	"strings"
	"testing"

	"overnet/util"

	"github.com/bfix/gospel/data"
)

// roundTrip serializes a frame, rebuilds it through the factory (as
// the codec does) and verifies that re-serialization yields the same
// bytes.
func roundTrip(t *testing.T, f Frame) Frame {
	t.Helper()
	buf, err := data.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	fh, err := GetFrameHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if fh.Type() != f.Header().Type() {
		t.Fatalf("frame type %d, want %d", fh.Type(), f.Header().Type())
	}
	out, err := NewEmptyFrame(fh.Type())
	if err != nil {
		t.Fatal(err)
	}
	if err = data.Unmarshal(out, buf); err != nil {
		t.Fatal(err)
	}
	buf2, err := data.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, buf2) {
		t.Fatal("marshal/unmarshal mismatch")
	}
	return out
}

func TestHelloFrame(t *testing.T) {
	for _, id := range []string{"mars+1234", "a", strings.Repeat("x", 300)} {
		m := roundTrip(t, NewHelloMsg(util.NewAgentID(id))).(*HelloMsg)
		if m.Peer() != util.NewAgentID(id) {
			t.Fatalf("peer %q, want %q", m.Peer(), id)
		}
	}
}

func TestBroadcastFrame(t *testing.T) {
	for _, s := range []string{"", "hi", "with spaces and \x00 bytes", strings.Repeat("y", 4096)} {
		m := roundTrip(t, NewBroadcastMsg(s)).(*BroadcastMsg)
		if m.Payload() != s {
			t.Fatalf("payload %q, want %q", m.Payload(), s)
		}
	}
}

func TestPeersFrame(t *testing.T) {
	list := []*PeerEntry{
		NewPeerEntry(util.NewAgentID("foo"), 0),
		NewPeerEntry(util.NewAgentID("bar"), 3),
		NewPeerEntry(util.NewAgentID("long-name+77777"), 12),
	}
	m := roundTrip(t, NewPeersMsg(list)).(*PeersMsg)
	if len(m.List) != len(list) {
		t.Fatalf("%d entries, want %d", len(m.List), len(list))
	}
	for i, e := range m.List {
		if e.Peer() != list[i].Peer() || e.Hops != list[i].Hops {
			t.Fatalf("entry %d: %s:%d, want %s:%d", i, e.Peer(), e.Hops, list[i].Peer(), list[i].Hops)
		}
	}
	// empty gossip list
	m = roundTrip(t, NewPeersMsg(nil)).(*PeersMsg)
	if len(m.List) != 0 {
		t.Fatal("empty list expected")
	}
}

func TestErrorFrame(t *testing.T) {
	m := roundTrip(t, NewErrorMsg("Expected Hello, got Broadcast")).(*ErrorMsg)
	if m.Text() != "Expected Hello, got Broadcast" {
		t.Fatalf("text %q", m.Text())
	}
}

func TestGoodbyeFrame(t *testing.T) {
	roundTrip(t, NewGoodbyeMsg())
}

func TestFactoryUnknown(t *testing.T) {
	if _, err := NewEmptyFrame(99); err == nil {
		t.Fatal("unknown frame type accepted")
	}
}

func TestFrameHeaderShort(t *testing.T) {
	if _, err := GetFrameHeader([]byte{1}); err != ErrFrameHeaderTooSmall {
		t.Fatal("short header accepted")
	}
}
