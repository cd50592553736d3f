package main

import (
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "aasdataplane",
		Short: "Data plane for Asset Administration Shell services",
		Long: `aasdataplane transfers data between connectors and AAS services.

Pull flows expose a public proxy that translates consumer requests into
AAS API calls; push flows read an AAS element and write it to a sink.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logger.SetDebug(true)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: defaults and environment only)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newFetchCmd(opts))
	cmd.AddCommand(newProbeCmd())
	return cmd
}
