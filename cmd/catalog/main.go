package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	_ "github.com/tair/product-catalog/docs"
	"github.com/tair/product-catalog/internal/catalog"
	"github.com/tair/product-catalog/internal/user/repository"
	"github.com/tair/product-catalog/internal/user/usecase/command"
	"github.com/tair/product-catalog/pkg/config"
	"github.com/tair/product-catalog/pkg/database"
	"github.com/tair/product-catalog/pkg/logger"
)

const version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "catalog",
		Usage:   "Product catalog service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file loaded before reading the environment",
				Value:   ".env",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP and gRPC servers",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: migrate,
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin account, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createAdmin,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Logger.Fatal().Err(err).Msg("catalog failed")
	}
}

// setup loads the configuration and configures logging for every command
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	c.App.Metadata = map[string]interface{}{"config": cfg}
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func openDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewGormConnection(cfg.Database, logger.Logger)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return db, func() { sqlDB.Close() }, nil
}

func migrate(c *cli.Context) error {
	db, closeDB, err := openDatabase(configFrom(c))
	if err != nil {
		return err
	}
	defer closeDB()

	if err := catalog.Migrate(db); err != nil {
		return err
	}
	logger.Logger.Info().Msg("Database migrated")
	return nil
}

func createAdmin(c *cli.Context) error {
	db, closeDB, err := openDatabase(configFrom(c))
	if err != nil {
		return err
	}
	defer closeDB()

	if err := catalog.Migrate(db); err != nil {
		return err
	}

	repo := repository.NewGormUserRepository(db)
	user, err := command.NewCreateAdminHandler(repo).Handle(context.Background(), command.RegisterUserCommand{
		Username: c.String("username"),
		Email:    c.String("email"),
		Password: c.String("password"),
	})
	if err != nil {
		return err
	}

	logger.Logger.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("Admin account ready")
	return nil
}
