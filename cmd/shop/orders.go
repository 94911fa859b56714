package main

import (
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders, or every order with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				orders []domain.Order
				err    error
			)
			if all {
				orders, err = a.client.ListOrders(cmd.Context())
			} else {
				orders, err = a.client.MyOrders(cmd.Context())
			}
			if err != nil {
				return err
			}
			renderOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every customer's orders (administrators)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <order-id>",
			Short: "Show one order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid order id: %w", err)
				}
				order, err := a.client.GetOrder(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderOrder(cmd.OutOrStdout(), order)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status <order-id> <Completado|Cancelado>",
			Short: "Move a pending order to a final status (administrators)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid order id: %w", err)
				}
				order, err := a.client.UpdateOrderStatus(cmd.Context(), id, domain.OrderStatus(args[1]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", order.ID, order.Status)
				return nil
			},
		},
	)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Order statistics for a period (administrators)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.OrderStats(cmd.Context(), period)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "periodo", domain.PeriodWeek, "semana, mes or anio")
	return cmd
}
