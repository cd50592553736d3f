package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/aasagent"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/common"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/httpclient"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/processor"
	"github.com/FraunhoferIOSB/EDC-Extension-for-AAS-sub001/internal/provider"
	"github.com/spf13/cobra"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var service common.ProviderConfig
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Read the environment of an AAS service and list its addressable elements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := common.LoadConfig(root.configPath)
			if err != nil {
				return err
			}
			prov, err := provider.FromConfig(service)
			if err != nil {
				return err
			}
			agent := aasagent.New(processor.New(httpclient.New(config.HTTPClient, nil)))
			env, readErr := agent.ReadEnvironment(cmd.Context(), prov)
			elements, err := aasagent.MapEnvironment(env, prov)
			if err != nil {
				return errors.Join(readErr, err)
			}
			if len(elements) == 0 && readErr != nil {
				return readErr
			}
			return printElements(cmd.OutOrStdout(), elements)
		},
	}

	cmd.Flags().StringVar(&service.URL, "url", "", "base URL of the AAS service")
	cmd.Flags().StringVar(&service.Auth.Type, "auth", "none", "authentication: none, basic or apikey")
	cmd.Flags().StringVar(&service.Auth.Username, "username", "", "basic auth user")
	cmd.Flags().StringVar(&service.Auth.Password, "password", "", "basic auth password")
	cmd.Flags().StringVar(&service.Auth.KeyName, "key-name", "x-api-key", "API key header")
	cmd.Flags().StringVar(&service.Auth.KeyValue, "key-value", "", "API key value")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func printElements(out io.Writer, elements []aasagent.Element) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODELTYPE\tPATH\tID")
	for _, root := range elements {
		root.Walk(func(e aasagent.Element) {
			path, err := e.Address.Path()
			if err != nil {
				path = "<" + err.Error() + ">"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.ModelType, path, e.ID)
		})
	}
	return w.Flush()
}
