package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return "$" + d.StringFixed(0)
	}
	return "$" + d.StringFixed(2)
}

func renderProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products match the filters")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.CategoryName(), money(p.Price), p.Stock)
	}
	tw.Flush()
}

func renderCart(w io.Writer, items []domain.CartItem, totals domain.CartTotals) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", item.ID, name, money(item.UnitPrice()), item.Quantity, money(item.LineSubtotal()))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nItems:    %d\n", totals.ItemCount)
	fmt.Fprintf(w, "Subtotal: %s\n", money(totals.Subtotal))
	fmt.Fprintf(w, "IVA 19%%:  %s\n", money(totals.Tax))
	fmt.Fprintf(w, "Total:    %s\n", money(totals.Total))
}

func renderOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ORDER\tDATE\tCUSTOMER\tLINES\tTOTAL\tSTATUS")
	for _, o := range orders {
		customer := o.User.Email
		if customer == "" {
			customer = o.User.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			o.ID, o.OrderedAt.Format("2006-01-02 15:04"), customer, len(o.Lines), money(o.Total), o.Status)
	}
	tw.Flush()
}

func renderOrder(w io.Writer, o *domain.Order) {
	fmt.Fprintf(w, "Order %s  %s  %s\n\n", o.ID, o.OrderedAt.Format("2006-01-02 15:04"), o.Status)
	tw := table(w)
	fmt.Fprintln(tw, "PRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range o.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.ProductName, money(l.UnitPrice), l.Quantity, money(l.Subtotal))
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal: %s\n", money(o.Total))
}

func renderStats(w io.Writer, s *domain.OrderStats) {
	fmt.Fprintf(w, "Period %s: %s to %s\n", s.Period, s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(w, "Orders %d  Sales %s  Pending %d  Completed %d  Cancelled %d\n\n",
		s.TotalOrders, money(s.TotalSales), s.Pending, s.Completed, s.Cancelled)
	tw := table(w)
	fmt.Fprintln(tw, "DAY\tORDERS\tSALES\tPENDING\tCOMPLETED\tCANCELLED")
	for _, d := range s.ByDay {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\n", d.Date, d.Count, money(d.Total), d.Pending, d.Completed, d.Cancelled)
	}
	tw.Flush()
}
