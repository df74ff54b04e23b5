package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chemchat/internal/events"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the model status reported by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root.cfg, events.Discard, declineClear)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if err := a.monitor.Refresh(cmd.Context()); err != nil {
				return err
			}
			info := a.monitor.Info()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"availability": a.monitor.Availability().String(),
					"model_info":   info,
				})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "Availability:\t%s\n", a.monitor.Availability())
			_, _ = fmt.Fprintf(tw, "Model:\t%s\n", info.ModelName)
			_, _ = fmt.Fprintf(tw, "Type:\t%s\n", info.ModelType)
			_, _ = fmt.Fprintf(tw, "Device:\t%s\n", info.Device)
			_, _ = fmt.Fprintf(tw, "Status:\t%s\n", info.Status)
			if info.Error != "" {
				_, _ = fmt.Fprintf(tw, "Error:\t%s\n", info.Error)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
