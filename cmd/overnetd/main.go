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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"overnet/config"
	"overnet/core"
	"overnet/service"
	"overnet/transport"
	"overnet/util"

	"github.com/bfix/gospel/logger"
)

func main() {
	defer func() {
		logger.Println(logger.INFO, "[overnetd] Bye.")
		// flush last messages
		logger.Flush()
	}()
	logger.Println(logger.INFO, "[overnetd] Starting agent...")

	var (
		cfgFile  string
		logLevel int
		rpcEndp  string
		err      error
	)
	// handle command line arguments
	flag.StringVar(&cfgFile, "c", "overnet-config.json", "configuration file")
	flag.IntVar(&logLevel, "L", logger.INFO, "log level (default: INFO)")
	flag.StringVar(&rpcEndp, "R", "", "JSON-RPC endpoint (default: from config)")
	flag.Parse()

	// read configuration file and set missing arguments.
	if err = config.ParseConfig(cfgFile); err != nil {
		logger.Printf(logger.ERROR, "[overnetd] Invalid configuration file: %s\n", err.Error())
		return
	}
	logger.SetLogLevel(logLevel)
	if len(rpcEndp) > 0 {
		config.Cfg.RPC = &config.RPCConfig{Endpoint: rpcEndp}
	}

	// instantiate agent
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var agent *core.Agent
	if name := config.Cfg.Local.Name; len(name) > 0 {
		agent = core.NewNamed(util.NewAgentID(name))
	} else {
		agent = core.New()
	}
	defer agent.Close()
	logger.Printf(logger.INFO, "[overnetd] Local agent is %s", agent.ID)

	// bind all configured listener endpoints
	defer transport.ForwardShutdown()
	for _, epCfg := range config.Cfg.Local.Endpoints {
		endp := epCfg.Addr()
		// handle UPnP port forwarding for TCP endpoints
		if epCfg.Upnp() {
			var local, remote string
			if _, local, remote, err = transport.ForwardOpen("tcp", epCfg.Port); err != nil {
				logger.Printf(logger.WARN, "[overnetd] No port forward for '%s': %s", epCfg.ID, err.Error())
				// degrade to plain listening on the configured host and port
				endp = fmt.Sprintf("tcp+%s:%d", strings.TrimPrefix(epCfg.Address, "upnp:"), epCfg.Port)
			} else {
				logger.Printf(logger.INFO, "[overnetd] Forwarding %s -> %s", remote, local)
				endp = "tcp+" + local
			}
		}
		addr, err := util.ParseAddr(endp)
		if err != nil {
			logger.Printf(logger.ERROR, "[overnetd] Bad endpoint '%s': %s", epCfg.ID, err.Error())
			return
		}
		var actual *util.Addr
		switch addr.Network() {
		case "tcp":
			actual, err = agent.ListenTCP(addr.Endp)
		case "unix":
			actual, err = agent.ListenUnix(addr.Endp)
		}
		if err != nil {
			logger.Printf(logger.ERROR, "[overnetd] Listen on '%s' failed: %s", epCfg.ID, err.Error())
			return
		}
		logger.Printf(logger.INFO, "[overnetd] Listening on %s", actual)
	}

	// dial bootstrap peers
	for _, spec := range config.Cfg.Local.Connect {
		addr, err := util.ParseAddr(spec)
		if err != nil {
			logger.Printf(logger.WARN, "[overnetd] Bad peer address '%s': %s", spec, err.Error())
			continue
		}
		switch addr.Network() {
		case "tcp":
			err = agent.ConnectTCP(addr.Endp)
		case "unix":
			err = agent.ConnectUnix(addr.Endp)
		}
		if err != nil {
			logger.Printf(logger.WARN, "[overnetd] Connect to %s failed: %s", addr, err.Error())
		}
	}

	// start JSON-RPC server on request
	if config.Cfg.RPC != nil && len(config.Cfg.RPC.Endpoint) > 0 {
		var rpc *service.JRPCServer
		if rpc, err = service.RunRPCServer(ctx, config.Cfg.RPC.Endpoint); err != nil {
			logger.Printf(logger.ERROR, "[overnetd] RPC failed to start: %s", err.Error())
			return
		}
		var ovl *service.OverlayRPC
		if ovl, err = service.NewOverlayRPC(agent); err != nil {
			logger.Printf(logger.ERROR, "[overnetd] RPC module failed: %s", err.Error())
			return
		}
		if err = ovl.InitRPC(rpc); err != nil {
			logger.Printf(logger.ERROR, "[overnetd] RPC registration failed: %s", err.Error())
			return
		}
		logger.Printf(logger.INFO, "[overnetd] JSON-RPC on %s", config.Cfg.RPC.Endpoint)
	}

	// handle OS signals
	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh)
loop:
	for sig := range sigCh {
		switch sig {
		case syscall.SIGKILL, syscall.SIGINT, syscall.SIGTERM:
			logger.Printf(logger.INFO, "[overnetd] Terminating (on signal '%s')\n", sig)
			break loop
		case syscall.SIGHUP:
			logger.Println(logger.INFO, "[overnetd] SIGHUP")
		case syscall.SIGURG:
			// TODO: https://github.com/golang/go/issues/37942
		default:
			logger.Println(logger.INFO, "[overnetd] Unhandled signal: "+sig.String())
		}
	}
}
