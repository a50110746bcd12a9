package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Rakhulsr/afronectar/app/configs"
	"github.com/Rakhulsr/afronectar/app/db/seeders"
	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/models/migrations"
	"github.com/Rakhulsr/afronectar/app/routes"
	"github.com/Rakhulsr/afronectar/app/services"
	"github.com/Rakhulsr/afronectar/app/utils/calc"
	"github.com/Rakhulsr/afronectar/app/utils/format"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"github.com/Rakhulsr/afronectar/app/utils/renderer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openCatalog(env configs.ENV, log *zap.Logger, m *metrics.Recorder) (*gorm.DB, *services.Catalog, error) {
	db, err := configs.OpenConnection(env, log)
	if err != nil {
		return nil, nil, err
	}
	return db, services.NewCatalog(db, log, m, env.SaleMaxAttempts), nil
}

func NewApp(env configs.ENV, log *zap.Logger, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "afronectar",
		Usage:  "Afronectar catalog and inventory service",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the catalog with fake categories, products, items and batches",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "categories", Value: 3, Usage: "number of top level categories"},
					&cli.IntFlag{Name: "products", Value: 2, Usage: "products per category"},
					&cli.IntFlag{Name: "items", Value: 2, Usage: "items per product"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					_, catalog, err := openCatalog(env, log, nil)
					if err != nil {
						return err
					}
					opts := seeders.DefaultOptions()
					opts.Categories = int(c.Int("categories"))
					opts.ProductsPerCategory = int(c.Int("products"))
					opts.ItemsPerProduct = int(c.Int("items"))

					_, err = seeders.DBSeed(ctx, catalog, log, opts)
					return err
				},
			},
			{
				Name:  "create-user",
				Usage: "Create the user recorded as author of batches and sales",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "role", Value: models.RoleStaff, Usage: "admin or staff"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					_, catalog, err := openCatalog(env, log, nil)
					if err != nil {
						return err
					}
					user, err := catalog.Users.Create(ctx, services.UserInput{
						Name:  c.String("name"),
						Email: c.String("email"),
						Role:  c.String("role"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(c.Root().Writer, user.ID)
					return nil
				},
			},
			{
				Name:  "stock",
				Usage: "Print sellable, expired and sold units per item",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Usage: "limit the report to one product id"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					_, catalog, err := openCatalog(env, log, nil)
					if err != nil {
						return err
					}
					return StockReport(ctx, catalog, c.Root().Writer, c.String("product"), env.CurrencySymbol)
				},
			},
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env, log)
				},
			},
		},
	}
}

func RunCli(env configs.ENV, log *zap.Logger) {
	if err := NewApp(env, log, os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal("Command failed", zap.Error(err))
	}
}

// StockReport writes one line per item with its unit counts and the value of
// the sellable units.
func StockReport(ctx context.Context, catalog *services.Catalog, out io.Writer, productID, currency string) error {
	var products []models.Product
	if productID != "" {
		product, err := catalog.Products.Get(ctx, productID)
		if err != nil {
			return err
		}
		products = []models.Product{*product}
	} else {
		all, err := catalog.Products.List(ctx, "", true)
		if err != nil {
			return err
		}
		products = all
	}

	money := format.NewMoneyFormatter(currency)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSKU\tPRICE\tSELLABLE\tEXPIRED\tSOLD\tVALUE")

	for _, product := range products {
		items, err := catalog.Items.ListByProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			summary, err := catalog.Stock.Stock(ctx, item.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				product.Title,
				item.Sku,
				money.FormatMoneyDecimal(item.Price),
				summary.Sellable,
				summary.Expired,
				summary.Sold,
				money.FormatMoneyDecimal(calc.StockValue(item.Price, summary.Sellable)))
		}
	}
	return tw.Flush()
}

// Serve runs the HTTP server until ctx is cancelled or the process receives
// SIGINT/SIGTERM.
func Serve(ctx context.Context, env configs.ENV, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder(env.MetricsPrefix, prometheus.DefaultRegisterer)

	db, catalog, err := openCatalog(env, log, recorder)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	router := routes.NewRouter(routes.RouterDeps{
		Catalog:  catalog,
		Render:   renderer.New("templates", env.CurrencySymbol, env.APP_ENV != "production"),
		Log:      log,
		Metrics:  recorder,
		Gatherer: prometheus.DefaultGatherer,
		Currency: env.CurrencySymbol,
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
