package main

import (
	"log"
	"os"
	"strings"

	"assignmentmate/backend/api"
	"assignmentmate/backend/config"
	"assignmentmate/backend/middleware"
	"assignmentmate/backend/routes"
	"assignmentmate/backend/session"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "assignment-mate",
		Usage: "gateway for the Assignment Mate quiz client",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv files to load before reading the environment",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "override SERVER_PORT",
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(ctx *cli.Context) error {
	// Load configuration
	cfg, err := config.LoadConfig(ctx.StringSlice("env-file")...)
	if err != nil {
		return err
	}
	if port := ctx.String("port"); port != "" {
		cfg.ServerPort = port
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogColors,
	})

	client := api.New(cfg.BackendURL, cfg.UpstreamTimeout)
	manager := session.NewManager(cfg.SessionRetention,
		session.WithManagerLogger(logger),
		session.WithIdleTimeout(cfg.SessionIdle),
	)
	defer manager.Close()

	// Create Fiber app
	server := fiber.New(fiber.Config{
		AppName:      "Assignment Mate",
		ErrorHandler: utils.ErrorHandler,
	})

	// Middleware
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: strings.Join([]string{"Origin", "Content-Type", "Accept", "Authorization", "X-Refresh-Token"}, ", "),
	}))
	server.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(server, client, manager, logger)

	logger.Printf("proxying %s on :%s", cfg.BackendURL, cfg.ServerPort)
	return server.Listen(":" + cfg.ServerPort)
}
