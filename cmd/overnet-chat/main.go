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

// Minimal line-oriented chat over the overlay: every non-empty stdin
// line is broadcast, every observed broadcast is printed. An example embedder
// of the agent facade, not part of the core.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"overnet/core"
	"overnet/util"

	"github.com/bfix/gospel/logger"
)

func main() {
	defer logger.Flush()

	var (
		name     string
		listen   string
		connect  string
		logLevel int
	)
	flag.StringVar(&name, "n", "", "agent name (default: <host>+<pid>)")
	flag.StringVar(&listen, "l", "", "listen address ('tcp+host:port' or 'unix+/path')")
	flag.StringVar(&connect, "c", "", "peer address ('tcp+host:port' or 'unix+/path')")
	flag.IntVar(&logLevel, "L", logger.WARN, "log level (default: WARN)")
	flag.Parse()
	logger.SetLogLevel(logLevel)

	// create and run agent
	var agent *core.Agent
	if len(name) > 0 {
		agent = core.NewNamed(util.NewAgentID(name))
	} else {
		agent = core.New()
	}
	defer agent.Close()
	fmt.Printf("agent %s\n", agent.ID)

	if len(listen) > 0 {
		addr, err := util.ParseAddr(listen)
		if err != nil {
			fmt.Println("listen: " + err.Error())
			return
		}
		var actual *util.Addr
		if addr.Network() == "tcp" {
			actual, err = agent.ListenTCP(addr.Endp)
		} else {
			actual, err = agent.ListenUnix(addr.Endp)
		}
		if err != nil {
			fmt.Println("listen: " + err.Error())
			return
		}
		fmt.Printf("listening on %s\n", actual)
	}
	if len(connect) > 0 {
		addr, err := util.ParseAddr(connect)
		if err != nil {
			fmt.Println("connect: " + err.Error())
			return
		}
		if addr.Network() == "tcp" {
			err = agent.ConnectTCP(addr.Endp)
		} else {
			err = agent.ConnectUnix(addr.Endp)
		}
		if err != nil {
			fmt.Println("connect: " + err.Error())
			return
		}
	}

	// print everything the agent observes
	feed, err := agent.Observe()
	if err != nil {
		fmt.Println("observe: " + err.Error())
		return
	}
	go func() {
		for s := range feed {
			fmt.Printf("<< %s\n", s)
		}
	}()

	// broadcast stdin lines
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := in.Text()
		if len(line) == 0 {
			continue
		}
		if err := agent.Broadcast(line); err != nil {
			fmt.Println("broadcast: " + err.Error())
			return
		}
	}
}
