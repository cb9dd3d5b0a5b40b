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
	"time"

	"overnet/message"
	"overnet/transport"
	"overnet/util"

	"github.com/bfix/gospel/logger"
)

// Queue and tolerance settings for the reactor.
const (
	eventQueueLen    = 256 // reactor event queue
	linkQueueLen     = 64  // outbound frame sink per link
	observerQueueLen = 64  // observer delivery queue
	maxObserverFails = 16  // consecutive failures before an observer is dropped
)

//----------------------------------------------------------------------
// Reactor
//----------------------------------------------------------------------

// sessionRec is the reactor's record of one live link. It is
// exclusively owned by the reactor.
type sessionRec struct {
	peer util.AgentID       // remote identity
	addr *util.Addr         // remote address (diagnostics)
	out  chan message.Frame // outbound frame sink (reactor is sole producer)
}

// observer is a local consumer of broadcasts.
type observer struct {
	ch    chan string // bounded delivery queue (reactor is sole producer)
	fails int         // consecutive failed deliveries
}

// Reactor is the single owner of the live-session table, the peer
// table and the observer list. All mutations happen on the reactor
// goroutine; sessions, pumps and the facade communicate with it only
// through bounded queues.
type Reactor struct {
	self     util.AgentID        // local identity
	events   chan *Event         // events from sessions, pumps and accept loops
	cmds     chan *Event         // requests and commands from the facade
	sessions map[int]*sessionRec // live links
	peers    *PeerTable          // best-route table
	obs      []*observer         // observer list
	nextLink int                 // link id source (dense, never reused)
	gossip   time.Duration       // gossip interval
}

// NewReactor prepares a reactor for the given identity.
func NewReactor(self util.AgentID, gossip time.Duration) *Reactor {
	return &Reactor{
		self:     self,
		events:   make(chan *Event, eventQueueLen),
		cmds:     make(chan *Event, eventQueueLen),
		sessions: make(map[int]*sessionRec),
		peers:    NewPeerTable(),
		obs:      make([]*observer, 0),
		gossip:   gossip,
	}
}

// Run the reactor loop until the context terminates. On exit every
// link receives a best-effort Goodbye and all sinks are closed, which
// winds down the per-link writers and pumps.
func (r *Reactor) Run(ctx context.Context) {
	logger.Printf(logger.INFO, "[core] %s: reactor running", r.self)
	tick := time.NewTicker(r.gossip)
	defer tick.Stop()
	for {
		select {
		case ev := <-r.events:
			r.handle(ctx, ev)
		case ev := <-r.cmds:
			r.handle(ctx, ev)
		case <-tick.C:
			r.sendGossip()
		case <-ctx.Done():
			r.shutdown()
			return
		}
	}
}

// handle one multiplexed input event.
func (r *Reactor) handle(ctx context.Context, ev *Event) {
	switch ev.ID {

	// a handshake completed: install the session, assign a link id
	// and run pump and writer for it.
	case EV_READY:
		link := r.nextLink
		r.nextLink++
		rec := &sessionRec{
			peer: ev.Peer,
			addr: ev.Addr,
			out:  make(chan message.Frame, linkQueueLen),
		}
		r.sessions[link] = rec
		r.peers.InsertLink(link, ev.Peer)
		go pump(ctx, link, ev.Conn, r.events)
		go writer(link, ev.Conn, rec.out)
		logger.Printf(logger.INFO, "[core] %s: link %d up (%s at %s)", r.self, link, ev.Peer, ev.Addr)
		// greet the new neighbor with our current peer table
		r.send(link, rec, r.gossipFrame())

	// payload message on a live link
	case EV_MESSAGE:
		rec, ok := r.sessions[ev.Link]
		if !ok {
			// stale event of a torn-down link
			return
		}
		switch m := ev.Msg.(type) {
		case *message.BroadcastMsg:
			// broadcasts travel one hop only: a received datum goes to
			// the local observers and is never relayed onward (a relay
			// would circulate forever in cyclic topologies).
			r.notify(m.Payload())
		case *message.PeersMsg:
			list := make([]PeerDist, 0, len(m.List))
			for _, e := range m.List {
				// never track ourselves
				if id := e.Peer(); id != r.self {
					list = append(list, PeerDist{ID: id, Hops: Distance(e.Hops)})
				}
			}
			added, removed := r.peers.Update(ev.Link, rec.peer, list)
			if len(added) > 0 || len(removed) > 0 {
				logger.Printf(logger.DBG, "[core] %s: link %d gossip: %d appeared, %d gone",
					r.self, ev.Link, len(added), len(removed))
			}
		}

	// a link went away: forget it and discard its sink
	case EV_CLOSED:
		rec, ok := r.sessions[ev.Link]
		if !ok {
			return
		}
		delete(r.sessions, ev.Link)
		close(rec.out)
		removed := r.peers.DropLink(ev.Link)
		logger.Printf(logger.INFO, "[core] %s: link %d down (%s, %d peers lost)",
			r.self, ev.Link, rec.peer, len(removed))

	// embedder broadcast: all live links, no exclusion
	case EV_BROADCAST:
		for link, rec := range r.sessions {
			r.send(link, rec, message.NewBroadcastMsg(ev.Data))
		}
		r.notify(ev.Data)

	// attach an observer sink
	case EV_OBSERVE:
		r.obs = append(r.obs, &observer{ch: ev.Obs})

	// status snapshot
	case EV_STATUS:
		stat := &StatusInfo{
			ID:    r.self,
			Links: make([]LinkInfo, 0, len(r.sessions)),
			Peers: r.peers.Table(),
		}
		for link, rec := range r.sessions {
			stat.Links = append(stat.Links, LinkInfo{
				Link: link,
				Peer: rec.peer,
				Addr: rec.addr.String(),
			})
		}
		select {
		case ev.Stat <- stat:
		default:
		}

	// start a session over a just-dialed or accepted connection
	case EV_CONNECT:
		sess := NewSession(r.self, ev.Addr, ev.Conn, r.events)
		go sess.Run(ctx)

	// accept sessions from a bound listener
	case EV_LISTEN:
		go acceptPump(ctx, ev.Listener, r.events)
	}
}

// send a frame to one link without blocking: the sink is bounded and
// a backlogged peer loses the frame (its pump will report the close
// if the link is truly gone).
func (r *Reactor) send(link int, rec *sessionRec, frame message.Frame) {
	select {
	case rec.out <- frame:
	default:
		logger.Printf(logger.DBG, "[core] %s: link %d backlogged, frame dropped", r.self, link)
	}
}

// notify delivers a broadcast datum to every observer. Failed sinks
// are tolerated; an observer failing too often in a row is dropped.
func (r *Reactor) notify(s string) {
	keep := r.obs[:0]
	for _, o := range r.obs {
		select {
		case o.ch <- s:
			o.fails = 0
		default:
			o.fails++
		}
		if o.fails < maxObserverFails {
			keep = append(keep, o)
		} else {
			logger.Printf(logger.INFO, "[core] %s: stale observer dropped", r.self)
		}
	}
	r.obs = keep
}

// gossipFrame assembles the current best-distance table as a Peers
// frame. Receivers add one hop per link.
func (r *Reactor) gossipFrame() *message.PeersMsg {
	table := r.peers.Table()
	list := make([]*message.PeerEntry, 0, len(table))
	for _, pd := range table {
		list = append(list, message.NewPeerEntry(pd.ID, int(pd.Hops)))
	}
	return message.NewPeersMsg(list)
}

// sendGossip pushes the peer table to all neighbors.
func (r *Reactor) sendGossip() {
	if len(r.sessions) == 0 {
		return
	}
	frame := r.gossipFrame()
	for link, rec := range r.sessions {
		r.send(link, rec, frame)
	}
}

// shutdown says goodbye on every link and closes all reactor-owned
// sinks. The per-link writers flush and close the connections, which
// ends the pumps; observers see their channels closed.
func (r *Reactor) shutdown() {
	logger.Printf(logger.INFO, "[core] %s: reactor shutting down (%d links)", r.self, len(r.sessions))
	for link, rec := range r.sessions {
		r.send(link, rec, message.NewGoodbyeMsg())
		close(rec.out)
		delete(r.sessions, link)
	}
	for _, o := range r.obs {
		close(o.ch)
	}
	r.obs = nil
}

//----------------------------------------------------------------------
// Per-link writer and per-listener accept pump
//----------------------------------------------------------------------

// writer drains the outbound sink of one link. The reactor is the
// sole producer, so frames reach the wire strictly in submission
// order. After a write failure remaining frames are consumed and
// dropped so the reactor never blocks; the connection is closed when
// the sink is closed.
func writer(link int, conn *transport.FrameConn, out <-chan message.Frame) {
	var werr error
	for frame := range out {
		if werr != nil {
			continue
		}
		if werr = conn.WriteFrame(frame); werr != nil {
			logger.Printf(logger.DBG, "[link-%d] send failed: %s", link, werr.Error())
		}
	}
	conn.Close()
}

// acceptPump turns accepted connections into connect commands for the
// reactor. It exits on the first accept error (the listener owner
// decides about re-listening).
func acceptPump(ctx context.Context, fl *transport.FrameListener, out chan<- *Event) {
	for {
		conn, addr, err := fl.Accept()
		if err != nil {
			logger.Printf(logger.INFO, "[core] listener %s done: %s", fl.Addr(), err.Error())
			return
		}
		logger.Printf(logger.DBG, "[core] accepted %s", addr)
		ev := &Event{
			ID:   EV_CONNECT,
			Addr: addr,
			Conn: conn,
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			conn.Close()
			return
		}
	}
}
