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
	"context"
	"net/http"
	"time"

	"github.com/bfix/gospel/logger"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// JSON-RPC interface to perform, manage and monitor overlay
// activities of a running agent.

// JRPCServer is a JSON-RPC server bound to a TCP endpoint.
type JRPCServer struct {
	srv  *rpc.Server
	http *http.Server
}

// RunRPCServer starts a JSON-RPC server; it is terminated by context.
func RunRPCServer(ctx context.Context, endpoint string) (*JRPCServer, error) {
	srv := rpc.NewServer()
	srv.RegisterCodec(json2.NewCodec(), "application/json")
	router := mux.NewRouter()
	router.Handle("/", srv)
	hsrv := &http.Server{
		Handler:      router,
		Addr:         endpoint,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	go func() {
		// start listening
		go func() {
			if err := hsrv.ListenAndServe(); err != nil {
				logger.Printf(logger.WARN, "[rpc] server listen failed: %s", err.Error())
			}
		}()
		<-ctx.Done()
		if err := hsrv.Shutdown(context.Background()); err != nil {
			logger.Printf(logger.WARN, "[rpc] server shutdown failed: %s", err.Error())
		}
	}()
	return &JRPCServer{
		srv:  srv,
		http: hsrv,
	}, nil
}

// RegisterService exposes the methods of a receiver under the given
// namespace.
func (s *JRPCServer) RegisterService(rcvr interface{}, name string) error {
	return s.srv.RegisterService(rcvr, name)
}
