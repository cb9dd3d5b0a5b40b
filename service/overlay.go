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

package service

import (
	"net/http"
	"sync"

	"overnet/core"

	"github.com/bfix/gospel/logger"
)

// observedRingLen bounds the broadcast history kept for RPC clients.
const observedRingLen = 100

//----------------------------------------------------------------------

// OverlayRPC exposes status and control of a local agent over
// JSON-RPC. It is a plain embedder of the agent facade: it subscribes
// one observer and keeps a bounded history of seen broadcasts.
type OverlayRPC struct {
	agent *core.Agent
	mtx   sync.Mutex
	seen  []string // ring of recently observed broadcasts
}

// NewOverlayRPC attaches an RPC service instance to an agent.
func NewOverlayRPC(agent *core.Agent) (*OverlayRPC, error) {
	o := &OverlayRPC{
		agent: agent,
	}
	ch, err := agent.Observe()
	if err != nil {
		return nil, err
	}
	go o.collect(ch)
	return o, nil
}

// InitRPC registers RPC commands for the module.
func (o *OverlayRPC) InitRPC(srv *JRPCServer) error {
	return srv.RegisterService(o, "Overlay")
}

// collect drains the observer feed into the history ring; it ends
// when the agent shuts down.
func (o *OverlayRPC) collect(ch <-chan string) {
	for s := range ch {
		o.mtx.Lock()
		o.seen = append(o.seen, s)
		if len(o.seen) > observedRingLen {
			o.seen = o.seen[len(o.seen)-observedRingLen:]
		}
		o.mtx.Unlock()
	}
}

//----------------------------------------------------------------------
// Command "Overlay.Status"
//----------------------------------------------------------------------

// StatusRequest asks for a snapshot of the agent state.
type StatusRequest struct{}

// LinkStatus describes one live link.
type LinkStatus struct {
	Link int    `json:"link"`
	Peer string `json:"peer"`
	Addr string `json:"addr"`
}

// PeerStatus is one entry of the best-distance peer table.
type PeerStatus struct {
	Peer string `json:"peer"`
	Hops int    `json:"hops"`
}

// StatusResponse returns identity, live links and peer table.
type StatusResponse struct {
	ID    string       `json:"id"`
	Links []LinkStatus `json:"links"`
	Peers []PeerStatus `json:"peers"`
}

// Status returns a snapshot of the agent state.
func (o *OverlayRPC) Status(r *http.Request, req *StatusRequest, reply *StatusResponse) error {
	stat, err := o.agent.Status()
	if err != nil {
		return err
	}
	out := StatusResponse{
		ID:    stat.ID.String(),
		Links: make([]LinkStatus, 0, len(stat.Links)),
		Peers: make([]PeerStatus, 0, len(stat.Peers)),
	}
	for _, l := range stat.Links {
		out.Links = append(out.Links, LinkStatus{
			Link: l.Link,
			Peer: l.Peer.String(),
			Addr: l.Addr,
		})
	}
	for _, p := range stat.Peers {
		out.Peers = append(out.Peers, PeerStatus{
			Peer: p.ID.String(),
			Hops: int(p.Hops),
		})
	}
	*reply = out
	return nil
}

//----------------------------------------------------------------------
// Command "Overlay.Broadcast"
//----------------------------------------------------------------------

// BroadcastRequest injects a broadcast datum.
type BroadcastRequest struct {
	Data string `json:"data"`
}

// BroadcastResponse acknowledges the injection.
type BroadcastResponse struct {
	Accepted bool `json:"accepted"`
}

// Broadcast injects a datum into the overlay (same path as the
// facade call).
func (o *OverlayRPC) Broadcast(r *http.Request, req *BroadcastRequest, reply *BroadcastResponse) error {
	if err := o.agent.Broadcast(req.Data); err != nil {
		logger.Printf(logger.WARN, "[rpc] broadcast rejected: %s", err.Error())
		return err
	}
	reply.Accepted = true
	return nil
}

//----------------------------------------------------------------------
// Command "Overlay.Observed"
//----------------------------------------------------------------------

// ObservedRequest asks for recently observed broadcasts.
type ObservedRequest struct {
	Max int `json:"max"` // 0: no limit (within the history bound)
}

// ObservedResponse lists recently observed broadcasts, oldest first.
type ObservedResponse struct {
	Messages []string `json:"messages"`
}

// Observed drains the history of observed broadcasts.
func (o *OverlayRPC) Observed(r *http.Request, req *ObservedRequest, reply *ObservedResponse) error {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	n := len(o.seen)
	if req.Max > 0 && req.Max < n {
		n = req.Max
	}
	reply.Messages = make([]string, n)
	copy(reply.Messages, o.seen[len(o.seen)-n:])
	o.seen = o.seen[:0]
	return nil
}
