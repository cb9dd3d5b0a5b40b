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
	"overnet/util"
)

// Distance is a non-negative hop count to a peer. A directly linked
// peer has distance 0; gossiped peers carry the advertised distance
// plus one hop for the link the gossip arrived on.
type Distance int

// PeerDist is one (identity, hop-count) pair, used in gossip lists
// and table snapshots.
type PeerDist struct {
	ID   util.AgentID
	Hops Distance
}

// route is a (link, distance) pair in the best-route index.
type route struct {
	link int
	dist Distance
}

//----------------------------------------------------------------------
// Peer table
//----------------------------------------------------------------------

// PeerTable maps known agents to the best (lowest-distance) link.
// Three indices are maintained in lock-step: the last received peer
// list per link (for set differences on update), all known routes per
// agent, and the current best route per agent. Ties keep the
// incumbent: a best entry is replaced only when a strictly lower
// distance is observed.
//
// The table is exclusively owned by the reactor and therefore
// unlocked.
type PeerTable struct {
	cache map[int]map[util.AgentID]Distance // link -> last view
	links map[util.AgentID]map[int]Distance // agent -> all routes
	best  map[util.AgentID]route            // agent -> best route
}

// NewPeerTable returns an empty peer table.
func NewPeerTable() *PeerTable {
	return &PeerTable{
		cache: make(map[int]map[util.AgentID]Distance),
		links: make(map[util.AgentID]map[int]Distance),
		best:  make(map[util.AgentID]route),
	}
}

// InsertLink records a new direct peer on a fresh link. It returns
// the newly-appeared agents (the remote identity, if it was unknown
// before).
func (t *PeerTable) InsertLink(link int, id util.AgentID) (added []util.AgentID) {
	routes, ok := t.links[id]
	if !ok {
		routes = make(map[int]Distance)
		t.links[id] = routes
	}
	routes[link] = 0
	if cur, ok := t.best[id]; !ok {
		t.best[id] = route{link, 0}
		added = append(added, id)
	} else if cur.dist > 0 {
		t.best[id] = route{link, 0}
	}
	t.cache[link] = map[util.AgentID]Distance{id: 0}
	return
}

// Update processes a received peer list from the remote agent on a
// link. It returns the agents that became reachable and those that
// became unreachable; the two lists are duplicate-free and disjoint.
func (t *PeerTable) Update(link int, id util.AgentID, list []PeerDist) (added, removed []util.AgentID) {
	// new view through this link: advertised distances plus one hop,
	// and the remote agent itself at distance 0.
	view := make(map[util.AgentID]Distance)
	for _, e := range list {
		view[e.ID] = e.Hops + 1
	}
	view[id] = 0

	for p, d := range view {
		routes, ok := t.links[p]
		if !ok {
			routes = make(map[int]Distance)
			t.links[p] = routes
		}
		routes[link] = d
		if cur, ok := t.best[p]; !ok {
			t.best[p] = route{link, d}
			added = append(added, p)
		} else if d < cur.dist {
			t.best[p] = route{link, d}
		} else if cur.link == link && d > cur.dist {
			// the best route itself worsened: recompute the minimum
			t.best[p] = minRoute(routes)
		}
	}
	// agents no longer visible through this link
	for p := range t.cache[link] {
		if _, ok := view[p]; !ok {
			if t.dropFromLink(p, link) {
				removed = append(removed, p)
			}
		}
	}
	t.cache[link] = view
	return
}

// DropLink removes a torn-down link from all indices and returns the
// agents that became unreachable.
func (t *PeerTable) DropLink(link int) (removed []util.AgentID) {
	view, ok := t.cache[link]
	if !ok {
		return
	}
	delete(t.cache, link)
	for p := range view {
		if t.dropFromLink(p, link) {
			removed = append(removed, p)
		}
	}
	return
}

// dropFromLink removes one route; it reports true if the agent is now
// unreachable, and otherwise recomputes the best route.
func (t *PeerTable) dropFromLink(id util.AgentID, link int) bool {
	routes := t.links[id]
	delete(routes, link)
	if len(routes) == 0 {
		delete(t.links, id)
		delete(t.best, id)
		return true
	}
	t.best[id] = minRoute(routes)
	return false
}

// minRoute returns the lowest-distance route of a non-empty route set.
func minRoute(routes map[int]Distance) (b route) {
	first := true
	for l, d := range routes {
		if first || d < b.dist {
			b = route{l, d}
			first = false
		}
	}
	return
}

//----------------------------------------------------------------------
// Queries
//----------------------------------------------------------------------

// BestLink returns the current lowest-distance link for an agent.
func (t *PeerTable) BestLink(id util.AgentID) (link int, ok bool) {
	b, ok := t.best[id]
	return b.link, ok
}

// Distance returns the current best distance to an agent.
func (t *PeerTable) Distance(id util.AgentID) (dist Distance, ok bool) {
	b, ok := t.best[id]
	return b.dist, ok
}

// Size returns the number of known agents.
func (t *PeerTable) Size() int {
	return len(t.best)
}

// Table returns a snapshot of the best-distance table (for gossip and
// diagnostics).
func (t *PeerTable) Table() (list []PeerDist) {
	list = make([]PeerDist, 0, len(t.best))
	for id, b := range t.best {
		list = append(list, PeerDist{ID: id, Hops: b.dist})
	}
	return
}
