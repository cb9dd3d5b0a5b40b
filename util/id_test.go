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
	"strings"
	"testing"
)

func TestAgentIDEquality(t *testing.T) {
	if NewAgentID("mars") != NewAgentID("mars") {
		t.Fatal("equal names differ")
	}
	if NewAgentID("mars") == NewAgentID("venus") {
		t.Fatal("different names equal")
	}
	// usable as map key
	m := map[AgentID]int{NewAgentID("mars"): 1}
	if m[NewAgentID("mars")] != 1 {
		t.Fatal("lookup failed")
	}
}

func TestLocalAgentID(t *testing.T) {
	id := LocalAgentID()
	if !strings.HasSuffix(id.String(), fmt.Sprintf("+%d", os.Getpid())) {
		t.Fatalf("unexpected local identity %s", id)
	}
	if id != LocalAgentID() {
		t.Fatal("local identity not stable")
	}
}

func TestNextID(t *testing.T) {
	a, b := NextID(), NextID()
	if a == b {
		t.Fatal("identifiers not unique")
	}
}
