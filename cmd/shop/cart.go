package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCartCmd(a *app) *cobra.Command {
	show := func(cmd *cobra.Command) error {
		if err := a.cart.FetchItems(cmd.Context()); err != nil {
			return err
		}
		renderCart(cmd.OutOrStdout(), a.cart.Items(), a.cart.Totals())
		return nil
	}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid product id: %w", err)
				}
				qty := 1
				if len(args) == 2 {
					if qty, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("invalid quantity: %w", err)
					}
				}
				if err := a.cart.AddItem(cmd.Context(), productID, qty); err != nil {
					return err
				}
				renderCart(cmd.OutOrStdout(), a.cart.Items(), a.cart.Totals())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <item-id> <quantity>",
			Short: "Change a line's quantity; below 1 is ignored, use rm",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid item id: %w", err)
				}
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity: %w", err)
				}
				if err := a.cart.UpdateQuantity(cmd.Context(), itemID, qty); err != nil {
					return err
				}
				return show(cmd)
			},
		},
		&cobra.Command{
			Use:   "rm <item-id>",
			Short: "Remove a line from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid item id: %w", err)
				}
				if err := a.cart.RemoveItem(cmd.Context(), itemID); err != nil {
					return err
				}
				renderCart(cmd.OutOrStdout(), a.cart.Items(), a.cart.Totals())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.cart.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cart emptied")
				return nil
			},
		},
	)
	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order with the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			user, err := a.session.User()
			if err != nil {
				info, err := a.client.UserInfo(ctx)
				if err != nil {
					return err
				}
				a.session.SetUser(info)
				user = *info
			}

			if err := a.cart.FetchItems(ctx); err != nil {
				return err
			}
			order, err := a.checkout.Checkout(ctx, user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Order placed")
			renderOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}
}
