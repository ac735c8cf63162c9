package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	serviceapp "github.com/shopcore/backend/internal/application/service"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newQuoteCmd(a *app) *cobra.Command {
	var (
		kind  string
		lines bool
	)

	cmd := &cobra.Command{
		Use:   "quote BASKET_FILE",
		Short: "Price the available methods for a basket",
		Long: "Reads a basket in the checkout API format and prints the methods it may use with their prices.\n" +
			"With --lines it prints the final order lines for the selected methods instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shopID, err := a.shop()
			if err != nil {
				return err
			}
			req, err := readBasket(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if lines {
				result, err := a.services.Checkout.FinalLines(cmd.Context(), shopID, *req)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "TYPE\tTEXT\tQUANTITY\tPRICE")
				for _, l := range result.Lines {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Type, l.Text, l.Quantity, l.Price)
				}
				fmt.Fprintf(w, "\t\tTOTAL\t%s\n", result.Total)
				return w.Flush()
			}

			methodKind := service.MethodKind(kind)
			if !methodKind.IsValid() {
				return fmt.Errorf("--kind must be shipping or payment")
			}
			methods, err := a.services.Checkout.AvailableMethods(cmd.Context(), shopID, methodKind, *req)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tDELIVERY")
			for _, m := range methods {
				delivery := "-"
				if m.DeliveryTime != nil {
					delivery = m.DeliveryTime.Text
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Price, delivery)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(service.MethodKindShipping), "shipping or payment")
	cmd.Flags().BoolVar(&lines, "lines", false, "print the final order lines of the selected methods")
	return cmd
}

func readBasket(path string) (*serviceapp.SourceRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read basket: %w", err)
	}
	var req serviceapp.SourceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode basket %s: %w", path, err)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("basket %s has no lines", path)
	}
	return &req, nil
}
