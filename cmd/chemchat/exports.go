package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"chemchat/internal/export"
)

func newExportsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Browse chat histories archived in the SQLite database",
	}
	cmd.AddCommand(newExportsListCmd(root), newExportsShowCmd(root))
	return cmd
}

func newExportsListCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived exports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &app{cfg: root.cfg}
			defer func() {
				_ = a.Close()
			}()
			repo, err := a.exportRepo()
			if err != nil {
				return err
			}

			records, err := repo.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "No exports.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tEXPORTED\tMODEL\tEXCHANGES")
			for _, rec := range records {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					rec.ID, rec.ExportedAt.Format(time.RFC3339), rec.Model, rec.ExchangeCount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of exports to list")
	return cmd
}

func newExportsShowCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one archived export as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &app{cfg: root.cfg}
			defer func() {
				_ = a.Close()
			}()
			repo, err := a.exportRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				rec, err := repo.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(rec.Document))
				return err
			}

			snap, err := repo.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, export.Markdown(snap))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON document")
	return cmd
}
