/*******************************************************************************
* Copyright (C) 2026 the Eclipse BaSyx Authors and Fraunhofer IESE
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/auth"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataplane"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataplane/api"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/httpclient"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the data plane HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			common.PrintSplash()
			config, err := common.LoadConfig(root.configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, config)
		},
	}
}

// newHandler wires the data plane below the configured context path.
func newHandler(ctx context.Context, config *common.Config, reg *prometheus.Registry) (http.Handler, *dataplane.Service, error) {
	metrics := httpclient.NewMetrics()
	if err := metrics.Register(reg); err != nil {
		return nil, nil, err
	}
	client := httpclient.New(config.HTTPClient, metrics)

	registry, err := provider.NewRegistry(config.Providers)
	if err != nil {
		return nil, nil, err
	}
	var oidc *auth.OIDC
	if config.OIDC.Enabled {
		if oidc, err = auth.NewOIDC(ctx, config.OIDC); err != nil {
			return nil, nil, err
		}
	}

	factory := processor.NewFactory(client, registry, config.DataPlane.AllowAll)
	svc := dataplane.NewService(factory, config.DataPlane, publicURL(config))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	common.AddCors(r, config)
	common.AddHealthEndpoint(r, config)
	common.AddMetricsEndpoint(r, config, reg)
	api.Register(r, api.NewPublicAPIController(svc, config.Server.ContextPath))
	r.Group(func(g chi.Router) {
		if oidc != nil {
			g.Use(oidc.Middleware)
		}
		api.Register(g, api.NewFlowAPIController(svc, config.Server.ContextPath))
	})
	return r, svc, nil
}

func runServer(ctx context.Context, config *common.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, svc, err := newHandler(ctx, config, reg)
	if err != nil {
		return err
	}
	defer svc.Close()

	addr := net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.LogInfo("data plane listening on " + addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.LogInfo("shutting down data plane")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("SERVE-SHUTDOWN %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("SERVE-LISTEN %w", err)
	}
}

// publicURL is the configured public URL, or the local listen address.
func publicURL(config *common.Config) string {
	if config.Server.PublicURL != "" {
		return config.Server.PublicURL
	}
	return fmt.Sprintf("http://localhost:%d%s", config.Server.Port, common.NormalizeBasePath(config.Server.ContextPath))
}
