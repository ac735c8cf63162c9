package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	serviceapp "github.com/shopcore/backend/internal/application/service"
	"github.com/spf13/cobra"
)

func newMethodsCmd(a *app) *cobra.Command {
	var filter serviceapp.MethodListFilter

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List shipping and payment methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shopID, err := a.shop()
			if err != nil {
				return err
			}
			if filter.Kind != "" && filter.Kind != "shipping" && filter.Kind != "payment" {
				return fmt.Errorf("--kind must be shipping or payment")
			}
			filter.Page = 1
			filter.PageSize = 100

			methods, total, err := a.services.Method.List(cmd.Context(), shopID, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tIDENTIFIER\tNAME\tSTATUS\tCOMPONENTS")
			for _, m := range methods {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", m.ID, m.Kind, m.Identifier, m.Name, m.Status, m.ComponentCount)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if int64(len(methods)) < total {
				fmt.Fprintf(cmd.OutOrStdout(), "showing %d of %d\n", len(methods), total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "shipping or payment")
	cmd.Flags().StringVar(&filter.Status, "status", "", "enabled or disabled")
	return cmd
}

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "component-kinds",
		Short: "List the behavior component kinds a method can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tTYPE\tDESCRIPTION")
			for _, info := range a.services.Registry.Describe() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Kind, info.Type, strings.TrimSpace(info.Description))
			}
			return w.Flush()
		},
	}
}
