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
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// The core consumes no configuration; this package serves the daemon
// binary only (node name, listener endpoints, bootstrap connects,
// RPC endpoint).

///////////////////////////////////////////////////////////////////////
// Endpoint configuration

// EndpointConfig describes one listener of the node.
type EndpointConfig struct {
	ID      string `json:"id"`      // endpoint identifier
	Network string `json:"network"` // address family ("tcp", "unix")
	Address string `json:"address"` // host or path; "upnp:" prefix requests a port forward
	Port    int    `json:"port"`    // TCP port (0: dynamic)
}

// Addr assembles the endpoint address in specification form.
func (c *EndpointConfig) Addr() string {
	if c.Network == "unix" {
		return c.Network + "+" + c.Address
	}
	return fmt.Sprintf("%s+%s:%d", c.Network, c.Address, c.Port)
}

// Upnp returns true if the endpoint requests a router port forward.
func (c *EndpointConfig) Upnp() bool {
	return strings.HasPrefix(c.Address, "upnp:")
}

///////////////////////////////////////////////////////////////////////
// Node configuration

// NodeConfig for the local agent.
type NodeConfig struct {
	Name      string            `json:"name"`      // agent name (empty: derive from host+pid)
	Endpoints []*EndpointConfig `json:"endpoints"` // listener endpoints
	Connect   []string          `json:"connect"`   // bootstrap peers ("tcp+host:port", "unix+/path")
}

// RPCConfig for the JSON-RPC status surface.
type RPCConfig struct {
	Endpoint string `json:"endpoint"` // TCP endpoint (empty: no RPC)
}

// Environment settings
type Environ map[string]string

// Config is the aggregated configuration for an overnet daemon.
type Config struct {
	Env   Environ     `json:"environ"`
	Local *NodeConfig `json:"local"`
	RPC   *RPCConfig  `json:"rpc"`
}

var (
	// Cfg is the global configuration
	Cfg *Config
)

// ParseConfig reads a JSON-encoded configuration file and maps it to
// the Config data structure.
func ParseConfig(fileName string) (err error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return
	}
	return ParseConfigBytes(file)
}

// ParseConfigBytes processes a JSON-encoded configuration.
func ParseConfigBytes(data []byte) (err error) {
	Cfg = new(Config)
	if err = json.Unmarshal(data, Cfg); err == nil {
		// process all string-based config settings and apply
		// string substitutions.
		applySubstitutions(Cfg, Cfg.Env)
	}
	if Cfg.Local == nil {
		Cfg.Local = new(NodeConfig)
	}
	return
}

var (
	rx = regexp.MustCompile(`\$\{([^\}]*)\}`)
)

// substString is a helper function to substitute environment
// variables with actual values.
func substString(s string, env map[string]string) string {
	matches := rx.FindAllStringSubmatch(s, -1)
	for _, m := range matches {
		if len(m[1]) != 0 {
			subst, ok := env[m[1]]
			if !ok {
				continue
			}
			s = strings.Replace(s, "${"+m[1]+"}", subst, -1)
		}
	}
	return s
}

// applySubstitutions traverses the configuration data structure and
// applies string substitutions to all string values.
func applySubstitutions(x interface{}, env map[string]string) {
	var process func(v reflect.Value)
	process = func(v reflect.Value) {
		for i := 0; i < v.NumField(); i++ {
			fld := v.Field(i)
			if !fld.CanSet() {
				continue
			}
			switch fld.Kind() {
			case reflect.String:
				s := fld.Interface().(string)
				if s1 := substString(s, env); s1 != s {
					fld.SetString(s1)
				}
			case reflect.Ptr:
				if e := fld.Elem(); e.IsValid() && e.Kind() == reflect.Struct {
					process(e)
				}
			case reflect.Struct:
				process(fld)
			case reflect.Slice:
				for j := 0; j < fld.Len(); j++ {
					el := fld.Index(j)
					switch el.Kind() {
					case reflect.String:
						s := el.Interface().(string)
						if s1 := substString(s, env); s1 != s {
							el.SetString(s1)
						}
					case reflect.Ptr:
						if e := el.Elem(); e.IsValid() && e.Kind() == reflect.Struct {
							process(e)
						}
					case reflect.Struct:
						process(el)
					}
				}
			}
		}
	}
	process(reflect.ValueOf(x).Elem())
}
