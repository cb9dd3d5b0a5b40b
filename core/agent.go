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
	"context"
	"errors"
	"time"

	"overnet/transport"
	"overnet/util"
)

// Facade error codes
var (
	ErrAgentClosed = errors.New("agent closed")
)

// defaultGossip is the interval for peer-table gossip to neighbors.
const defaultGossip = 10 * time.Second

//----------------------------------------------------------------------
// Agent facade
//----------------------------------------------------------------------

// Agent is the outward handle of one overlay node. It carries the
// local identity and the command path into the reactor; all steady-
// state peer failures are absorbed internally, only immediate local
// failures (bind, dial, agent closed) surface here.
type Agent struct {
	ID util.AgentID // local identity

	ctx     context.Context
	cancel  context.CancelFunc
	reactor *Reactor
	listens *util.Map[int, *util.Addr] // active listener addresses
}

// New creates and runs an agent with the identity of the running
// process ("<host>+<pid>").
func New() *Agent {
	return NewNamed(util.LocalAgentID())
}

// NewNamed creates and runs an agent with a caller-supplied identity.
// Multiple agents can coexist in one process.
func NewNamed(id util.AgentID) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Agent{
		ID:      id,
		ctx:     ctx,
		cancel:  cancel,
		reactor: NewReactor(id, defaultGossip),
		listens: util.NewMap[int, *util.Addr](),
	}
	go a.reactor.Run(ctx)
	return a
}

// Close shuts the agent down: all sessions say goodbye and terminate,
// listeners stop accepting, observers see their channels closed.
func (a *Agent) Close() {
	a.cancel()
}

// submit a command to the reactor.
func (a *Agent) submit(ev *Event) error {
	select {
	case a.reactor.cmds <- ev:
		return nil
	case <-a.ctx.Done():
		return ErrAgentClosed
	}
}

//----------------------------------------------------------------------
// Connecting and listening
//----------------------------------------------------------------------

// ConnectTCP dials a TCP endpoint ("host:port") and starts a session
// on the connection.
func (a *Agent) ConnectTCP(endp string) error {
	return a.connect(util.NewAddr("tcp", endp))
}

// ConnectUnix dials a local stream socket (filesystem path) and
// starts a session on the connection.
func (a *Agent) ConnectUnix(path string) error {
	return a.connect(util.NewAddr("unix", path))
}

func (a *Agent) connect(addr *util.Addr) error {
	conn, err := transport.Connect(addr)
	if err != nil {
		return err
	}
	ev := &Event{
		ID:   EV_CONNECT,
		Addr: addr,
		Conn: conn,
	}
	if err = a.submit(ev); err != nil {
		conn.Close()
	}
	return err
}

// ListenTCP binds a TCP endpoint ("host:port"; port 0 selects a free
// port) and accepts sessions on it. The actual listening address is
// returned.
func (a *Agent) ListenTCP(endp string) (*util.Addr, error) {
	return a.listen(util.NewAddr("tcp", endp))
}

// ListenUnix binds a local stream socket and accepts sessions on it.
func (a *Agent) ListenUnix(path string) (*util.Addr, error) {
	return a.listen(util.NewAddr("unix", path))
}

func (a *Agent) listen(addr *util.Addr) (*util.Addr, error) {
	fl, err := transport.Listen(a.ctx, addr)
	if err != nil {
		return nil, err
	}
	ev := &Event{
		ID:       EV_LISTEN,
		Listener: fl,
	}
	if err = a.submit(ev); err != nil {
		fl.Close()
		return nil, err
	}
	a.listens.Put(fl.ID(), fl.Addr())
	return fl.Addr(), nil
}

// Listeners returns the addresses of all active listeners.
func (a *Agent) Listeners() (list []*util.Addr) {
	a.listens.ProcessRange(func(_ int, addr *util.Addr) error {
		list = append(list, addr)
		return nil
	})
	return
}

//----------------------------------------------------------------------
// Broadcasts and observers
//----------------------------------------------------------------------

// Broadcast sends a textual datum to every connected peer and to all
// local observers.
func (a *Agent) Broadcast(s string) error {
	return a.submit(&Event{
		ID:   EV_BROADCAST,
		Data: s,
	})
}

// Observe subscribes a bounded queue that receives every broadcast
// the agent processes (local or remote). The channel is closed when
// the agent shuts down; a consumer lagging too far behind loses
// messages and is eventually dropped.
func (a *Agent) Observe() (<-chan string, error) {
	ch := make(chan string, observerQueueLen)
	ev := &Event{
		ID:  EV_OBSERVE,
		Obs: ch,
	}
	if err := a.submit(ev); err != nil {
		return nil, err
	}
	return ch, nil
}

//----------------------------------------------------------------------
// Diagnostics
//----------------------------------------------------------------------

// Status returns a snapshot of the reactor state (live links and
// peer table).
func (a *Agent) Status() (*StatusInfo, error) {
	ch := make(chan *StatusInfo, 1)
	ev := &Event{
		ID:   EV_STATUS,
		Stat: ch,
	}
	if err := a.submit(ev); err != nil {
		return nil, err
	}
	select {
	case stat := <-ch:
		return stat, nil
	case <-a.ctx.Done():
		return nil, ErrAgentClosed
	}
}
