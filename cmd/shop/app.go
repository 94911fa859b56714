package main

import (
	"os"
	"path/filepath"

	"storefront/internal/apiclient"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app wires the client core for one command invocation
type app struct {
	cfg         config.ClientConfig
	log         *zap.Logger
	sessionPath string
	session     *session.Session
	client      *apiclient.Client
	catalog     *catalog.Reader
	cart        *cart.Store
	checkout    *checkout.Orchestrator
}

type rootFlags struct {
	apiURL      string
	sessionPath string
	verbose     bool
	taxOnOrder  bool
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", "session.json")
}

func newApp(cfg config.ClientConfig, flags *rootFlags) (*app, error) {
	log := logger.NewCLI(flags.verbose)

	sess, err := session.Load(flags.sessionPath)
	if err != nil {
		return nil, err
	}
	// an explicit token in the environment wins over the saved one; the
	// saved user may belong to another account, so it is looked up again
	if cfg.Token != "" {
		sess.SetLogin(cfg.Token, nil)
		sess.SetUser(nil)
	}

	client := apiclient.New(flags.apiURL,
		apiclient.WithTokenSource(sess),
		apiclient.WithLogger(log.Named("api")),
	)
	store := cart.NewStore(client, log.Named("cart"))

	return &app{
		cfg:         cfg,
		log:         log,
		sessionPath: flags.sessionPath,
		session:     sess,
		client:      client,
		catalog:     catalog.NewReader(client, log.Named("catalog")),
		cart:        store,
		checkout:    checkout.New(store, client, log.Named("checkout"), checkout.WithTaxOnOrder(flags.taxOnOrder)),
	}, nil
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Browse the storefront, manage the cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp(cfg.Client, flags)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api", cfg.Client.BaseURL, "storefront API base URL")
	pf.StringVar(&flags.sessionPath, "session", defaultSessionPath(), "file holding the login session")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log API calls to stderr")
	pf.BoolVar(&flags.taxOnOrder, "tax-on-order", cfg.Client.TaxOnOrder, "include the cart tax in the order total")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoAmICmd(a),
		newProductsCmd(a),
		newCategoriesCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
		newStatsCmd(a),
	)
	return root
}
