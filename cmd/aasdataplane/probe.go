package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultProbePort    = "8282"
	defaultProbeTimeout = 5 * time.Second
)

type probeOptions struct {
	url     string
	quiet   bool
	spider  bool
	timeout time.Duration
}

// newProbeCmd checks the health endpoint of a running data plane. It is meant
// for container health checks where no shell tools are available.
func newProbeCmd() *cobra.Command {
	opts := probeOptions{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exit non-zero unless the data plane health endpoint reports healthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.url == "" {
				opts.url = defaultHealthURL()
			}
			out := cmd.OutOrStdout()
			if opts.spider {
				out = io.Discard
			}
			err := runProbe(opts, out)
			if err != nil && opts.quiet {
				cmd.SilenceErrors = true
			}
			return err
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "", "health URL (default: from SERVER_PORT and SERVER_CONTEXTPATH)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print errors")
	cmd.Flags().BoolVar(&opts.spider, "spider", false, "discard the response body")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultProbeTimeout, "request timeout")
	return cmd
}

func defaultHealthURL() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = defaultProbePort
	}
	return fmt.Sprintf("http://127.0.0.1:%s%s/health", port, os.Getenv("SERVER_CONTEXTPATH"))
}

func runProbe(opts probeOptions, out io.Writer) error {
	client := &http.Client{Timeout: opts.timeout}

	response, err := client.Get(opts.url)
	if err != nil {
		return fmt.Errorf("PROBE-RUN-REQUESTFAILED: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("PROBE-RUN-UNHEALTHYSTATUS: %d", response.StatusCode)
	}
	if _, err := io.Copy(out, response.Body); err != nil {
		return fmt.Errorf("PROBE-RUN-WRITEFAILED: %w", err)
	}
	return nil
}
