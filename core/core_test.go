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

package core

import (
	"path/filepath"
	"testing"
	"time"

	"overnet/message"
	"overnet/transport"
	"overnet/util"
)

const (
	waitTime  = 5 * time.Second
	pollDelay = 20 * time.Millisecond
)

// expectMsg waits for one specific datum on an observer feed.
func expectMsg(t *testing.T, feed <-chan string, want string) {
	t.Helper()
	select {
	case got, ok := <-feed:
		if !ok {
			t.Fatalf("feed closed, want %q", want)
		}
		if got != want {
			t.Fatalf("observed %q, want %q", got, want)
		}
	case <-time.After(waitTime):
		t.Fatalf("no broadcast %q observed", want)
	}
}

// expectQuiet verifies that no further datum arrives for a while.
func expectQuiet(t *testing.T, feed <-chan string) {
	t.Helper()
	select {
	case got, ok := <-feed:
		if ok {
			t.Fatalf("unexpected broadcast %q", got)
		}
	case <-time.After(250 * time.Millisecond):
	}
}

// waitStatus polls the agent until the condition holds.
func waitStatus(t *testing.T, a *Agent, desc string, cond func(*StatusInfo) bool) {
	t.Helper()
	deadline := time.Now().Add(waitTime)
	for time.Now().Before(deadline) {
		stat, err := a.Status()
		if err != nil {
			t.Fatal(err)
		}
		if cond(stat) {
			return
		}
		time.Sleep(pollDelay)
	}
	t.Fatalf("condition not reached: %s", desc)
}

func links(n int) func(*StatusInfo) bool {
	return func(s *StatusInfo) bool { return len(s.Links) == n }
}

//----------------------------------------------------------------------
// Two agents over a local stream socket
//----------------------------------------------------------------------

func TestAgentPair(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "agent.sock")
	a := NewNamed(util.NewAgentID("A"))
	defer a.Close()
	b := NewNamed(util.NewAgentID("B"))
	defer b.Close()

	if _, err := a.ListenUnix(sock); err != nil {
		t.Fatal(err)
	}
	obsA, err := a.Observe()
	if err != nil {
		t.Fatal(err)
	}
	obsB, err := b.Observe()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ConnectUnix(sock); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, a, "A linked", links(1))
	waitStatus(t, b, "B linked", links(1))

	// broadcast travels the wire, and locally to the sender's own
	// observers
	if err := b.Broadcast("hi"); err != nil {
		t.Fatal(err)
	}
	expectMsg(t, obsA, "hi")
	expectMsg(t, obsB, "hi")

	if err := a.Broadcast("ho"); err != nil {
		t.Fatal(err)
	}
	expectMsg(t, obsB, "ho")
	expectMsg(t, obsA, "ho")

	// exactly once each
	expectQuiet(t, obsA)
	expectQuiet(t, obsB)

	// both sides identified each other
	statA, _ := a.Status()
	if len(statA.Links) != 1 || statA.Links[0].Peer != util.NewAgentID("B") {
		t.Fatalf("A sees %v", statA.Links)
	}
	statB, _ := b.Status()
	if len(statB.Links) != 1 || statB.Links[0].Peer != util.NewAgentID("A") {
		t.Fatalf("B sees %v", statB.Links)
	}
}

//----------------------------------------------------------------------
// Three pairwise-connected agents over TCP
//----------------------------------------------------------------------

func TestAgentTriangle(t *testing.T) {
	a := NewNamed(util.NewAgentID("A"))
	defer a.Close()
	b := NewNamed(util.NewAgentID("B"))
	defer b.Close()
	c := NewNamed(util.NewAgentID("C"))
	defer c.Close()

	addrA, err := a.ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addrB, err := b.ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	obsA, _ := a.Observe()
	obsB, _ := b.Observe()
	obsC, _ := c.Observe()

	if err := b.ConnectTCP(addrA.Endp); err != nil {
		t.Fatal(err)
	}
	if err := c.ConnectTCP(addrA.Endp); err != nil {
		t.Fatal(err)
	}
	if err := c.ConnectTCP(addrB.Endp); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, a, "A fully linked", links(2))
	waitStatus(t, b, "B fully linked", links(2))
	waitStatus(t, c, "C fully linked", links(2))

	// one broadcast reaches every agent exactly once: direct
	// neighbors do not forward it back or onward.
	if err := a.Broadcast("x"); err != nil {
		t.Fatal(err)
	}
	expectMsg(t, obsB, "x")
	expectMsg(t, obsC, "x")
	expectMsg(t, obsA, "x")
	expectQuiet(t, obsA)
	expectQuiet(t, obsB)
	expectQuiet(t, obsC)
}

//----------------------------------------------------------------------
// Handshake rejection
//----------------------------------------------------------------------

func TestHandshakeReject(t *testing.T) {
	a := NewNamed(util.NewAgentID("A"))
	defer a.Close()
	addr, err := a.ListenTCP("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	// raw client that leads with a non-Hello frame
	conn, err := transport.Connect(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := conn.WriteFrame(message.NewBroadcastMsg("nope")); err != nil {
		t.Fatal(err)
	}
	// expect the server's Hello, one advisory Error, then close
	sawError := false
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			break
		}
		if _, ok := frame.(*message.ErrorMsg); ok {
			sawError = true
		}
	}
	if !sawError {
		t.Fatal("no Error frame received")
	}
	// the rejected connection never became a link
	waitStatus(t, a, "A unlinked", links(0))
}

//----------------------------------------------------------------------
// Graceful shutdown with live sessions
//----------------------------------------------------------------------

func TestAgentShutdown(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "agent.sock")
	a := NewNamed(util.NewAgentID("A"))
	b := NewNamed(util.NewAgentID("B"))
	defer b.Close()
	c := NewNamed(util.NewAgentID("C"))
	defer c.Close()

	if _, err := a.ListenUnix(sock); err != nil {
		t.Fatal(err)
	}
	obsA, err := a.Observe()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ConnectUnix(sock); err != nil {
		t.Fatal(err)
	}
	if err := c.ConnectUnix(sock); err != nil {
		t.Fatal(err)
	}
	waitStatus(t, a, "A fully linked", links(2))
	waitStatus(t, b, "B linked", links(1))
	waitStatus(t, c, "C linked", links(1))

	// dropping the handle winds down sessions on both ends within a
	// bounded time
	a.Close()
	waitStatus(t, b, "B unlinked", links(0))
	waitStatus(t, c, "C unlinked", links(0))

	// A's observer feed ends
	deadline := time.After(waitTime)
	for {
		select {
		case _, ok := <-obsA:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("observer feed not closed")
		}
	}
}
