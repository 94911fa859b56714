package main

import (
	"fmt"

	"storefront/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		f        catalog.Filter
		min, max string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseBound(min, &f.MinPrice); err != nil {
				return fmt.Errorf("--min: %w", err)
			}
			if err := parseBound(max, &f.MaxPrice); err != nil {
				return fmt.Errorf("--max: %w", err)
			}
			if err := a.catalog.Load(cmd.Context()); err != nil {
				return err
			}

			products := a.catalog.Filtered(f)
			renderProducts(cmd.OutOrStdout(), products)

			_, hi := catalog.PriceBounds(a.catalog.Products())
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d products, prices up to %s\n",
				len(products), len(a.catalog.Products()), money(hi))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Category, "category", "", "exact category name")
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "text in the product name")
	cmd.Flags().StringVar(&min, "min", "", "minimum price")
	cmd.Flags().StringVar(&max, "max", "", "maximum price")
	cmd.Flags().StringSliceVar(&f.Sizes, "size", nil, "size token in the description, repeatable")
	return cmd
}

func parseBound(s string, dst *decimal.NullDecimal) error {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	*dst = decimal.NewNullDecimal(d)
	return nil
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.catalog.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			return tw.Flush()
		},
	}
}
