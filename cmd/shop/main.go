package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"storefront/internal/apiclient"
	"storefront/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd(config.Load()).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, apiclient.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "Session missing or expired. Run: shop login --email <correo> --password <password>")
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(1)
}
