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

package config

import (
	"encoding/json"
	"testing"
)

var testConfig = `{
	"environ": {
		"RUNTIME": "/tmp/overnet"
	},
	"local": {
		"name": "node1",
		"endpoints": [
			{
				"id": "main",
				"network": "unix",
				"address": "${RUNTIME}/agent.sock",
				"port": 0
			},
			{
				"id": "public",
				"network": "tcp",
				"address": "127.0.0.1",
				"port": 2086
			}
		],
		"connect": [
			"tcp+127.0.0.1:2087"
		]
	},
	"rpc": {
		"endpoint": "${RUNTIME}.rpc:8080"
	}
}`

func TestConfigRead(t *testing.T) {
	if err := ParseConfigBytes([]byte(testConfig)); err != nil {
		t.Fatal(err)
	}
	if Cfg.Local.Name != "node1" {
		t.Fatalf("name %q", Cfg.Local.Name)
	}
	// environment substitution applied to nested structs
	ep := Cfg.Local.Endpoints[0]
	if ep.Address != "/tmp/overnet/agent.sock" {
		t.Fatalf("substitution failed: %q", ep.Address)
	}
	if ep.Addr() != "unix+/tmp/overnet/agent.sock" {
		t.Fatalf("endpoint address %q", ep.Addr())
	}
	if Cfg.Local.Endpoints[1].Addr() != "tcp+127.0.0.1:2086" {
		t.Fatalf("endpoint address %q", Cfg.Local.Endpoints[1].Addr())
	}
	if Cfg.RPC.Endpoint != "/tmp/overnet.rpc:8080" {
		t.Fatalf("rpc endpoint %q", Cfg.RPC.Endpoint)
	}
	// write configuration
	if _, err := json.Marshal(Cfg); err != nil {
		t.Fatal(err)
	}
}
