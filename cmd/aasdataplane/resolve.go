package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/aasref"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/dataaddress"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "resolve [reference-json|-]",
		Short: "Print the AAS API path of a model reference",
		Example: `  aasdataplane resolve '{"type":"ModelReference","keys":[{"type":"Submodel","value":"sm-1"}]}'
  aasdataplane resolve --base-url https://aas.example.com/api/v3.0 - < ref.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if raw == "-" {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("RESOLVE-READ %w", err)
				}
				raw = string(in)
			}
			return resolve(cmd.OutOrStdout(), strings.TrimSpace(raw), baseURL)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "also print the full request URL below this AAS service")
	return cmd
}

func resolve(out io.Writer, raw string, baseURL string) error {
	ref, err := aasref.ParseReference(raw)
	if err != nil {
		return err
	}
	path, err := aasref.ToPath(ref)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "path: %s\n", path)
	if idShortPath := aasref.IDShortPath(ref); idShortPath != "" {
		_, _ = fmt.Fprintf(out, "idShortPath: %s\n", idShortPath)
	}
	if baseURL == "" {
		return nil
	}

	addr, err := dataaddress.NewBuilder().BaseURL(baseURL).Reference(ref).Build()
	if err != nil {
		return err
	}
	req, err := processor.New(nil).BuildRequest(context.Background(), addr, nil, "")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "url: %s %s\n", req.Method, req.URL.String())
	return nil
}
