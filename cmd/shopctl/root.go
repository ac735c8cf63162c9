package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/bootstrap"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every subcommand needs. Tests populate it directly.
type app struct {
	out      io.Writer
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	database *persistence.Database
	services *bootstrap.Services
	shopID   uuid.UUID
}

type rootFlags struct {
	configFile string
	shop       string
	logLevel   string
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Administer shop methods and supplier stock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(flags)
		},
	}
	cmd.SetOut(a.out)

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default ./config.toml)")
	cmd.PersistentFlags().StringVar(&flags.shop, "shop", "", "shop ID (default app.default_shop_id)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDBCmd(a),
		newMethodsCmd(a),
		newKindsCmd(a),
		newQuoteCmd(a),
		newStockCmd(a),
	)
	return cmd
}

func (a *app) init(flags *rootFlags) error {
	if a.services != nil {
		return a.resolveShop(flags.shop)
	}

	cfg, err := config.LoadFile(flags.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(&logger.Config{
		Level:      flags.logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05.000",
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	a.log = log

	database, err := persistence.Open(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(flags.logLevel)))
	if err != nil {
		return err
	}
	a.database = database
	a.db = database.DB

	services, err := bootstrap.NewServices(a.db, cfg.Checkout, bootstrap.Options{})
	if err != nil {
		return err
	}
	a.services = services

	if flags.shop == "" {
		flags.shop = cfg.App.DefaultShopID
	}
	return a.resolveShop(flags.shop)
}

func (a *app) resolveShop(shop string) error {
	if shop == "" {
		return nil
	}
	id, err := uuid.Parse(shop)
	if err != nil {
		return fmt.Errorf("invalid shop ID %q: %w", shop, err)
	}
	a.shopID = id
	return nil
}

// shop returns the selected shop for commands that work on shop data
func (a *app) shop() (uuid.UUID, error) {
	if a.shopID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no shop selected: pass --shop or set app.default_shop_id")
	}
	return a.shopID, nil
}

func (a *app) close() {
	if a.database != nil {
		_ = a.database.Close()
	}
	if a.log != nil {
		_ = logger.Sync(a.log)
	}
}
