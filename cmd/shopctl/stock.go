package main

import (
	"fmt"

	"github.com/google/uuid"
	supplyapp "github.com/shopcore/backend/internal/application/supply"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type stockFlags struct {
	supplier string
	product  string
}

func (f *stockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.supplier, "supplier", "", "supplier ID")
	cmd.Flags().StringVar(&f.product, "product", "", "product ID")
	_ = cmd.MarkFlagRequired("supplier")
	_ = cmd.MarkFlagRequired("product")
}

func (f *stockFlags) parse() (uuid.UUID, uuid.UUID, error) {
	supplierID, err := uuid.Parse(f.supplier)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --supplier: %w", err)
	}
	productID, err := uuid.Parse(f.product)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --product: %w", err)
	}
	return supplierID, productID, nil
}

func newStockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and adjust supplier stock",
	}
	cmd.AddCommand(newStockStatusCmd(a), newStockAdjustCmd(a))
	return cmd
}

func newStockStatusCmd(a *app) *cobra.Command {
	flags := &stockFlags{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stock of a product at a supplier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shopID, err := a.shop()
			if err != nil {
				return err
			}
			supplierID, productID, err := flags.parse()
			if err != nil {
				return err
			}
			status, err := a.services.Stock.GetStatus(cmd.Context(), shopID, supplierID, productID)
			if err != nil {
				return err
			}
			printStatus(cmd, status)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newStockAdjustCmd(a *app) *cobra.Command {
	flags := &stockFlags{}
	var delta, price, actor string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Book a stock adjustment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shopID, err := a.shop()
			if err != nil {
				return err
			}
			supplierID, productID, err := flags.parse()
			if err != nil {
				return err
			}
			req := supplyapp.AdjustStockRequest{CreatedBy: actor}
			if req.Delta, err = decimal.NewFromString(delta); err != nil {
				return fmt.Errorf("invalid --delta: %w", err)
			}
			if price != "" {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid --price: %w", err)
				}
				req.PurchasePrice = &p
			}

			status, err := a.services.Stock.AdjustStock(cmd.Context(), shopID, supplierID, productID, req)
			if err != nil {
				return err
			}
			printStatus(cmd, status)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&delta, "delta", "", "quantity to add, negative to remove")
	cmd.Flags().StringVar(&price, "price", "", "purchase unit price of added stock")
	cmd.Flags().StringVar(&actor, "actor", "shopctl", "name recorded on the adjustment")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}

func printStatus(cmd *cobra.Command, s *supplyapp.StockStatusResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "logical:  %s\n", s.LogicalCount)
	fmt.Fprintf(out, "physical: %s\n", s.PhysicalCount)
	fmt.Fprintf(out, "value:    %s\n", s.StockValue)
	if s.AlertLimit != nil {
		fmt.Fprintf(out, "alert at: %s (below: %t)\n", s.AlertLimit, s.BelowAlertLimit)
	}
}
