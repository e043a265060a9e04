// Command weather-bgm-player runs the weather-aware background music server.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/eru038/Weather-BGM-Player/internal/auth"
	"github.com/eru038/Weather-BGM-Player/internal/config"
	"github.com/eru038/Weather-BGM-Player/internal/db"
	"github.com/eru038/Weather-BGM-Player/internal/preview"
	"github.com/eru038/Weather-BGM-Player/internal/session"
	"github.com/eru038/Weather-BGM-Player/internal/spotify"
	"github.com/eru038/Weather-BGM-Player/internal/weather"
	"github.com/eru038/Weather-BGM-Player/internal/web"
	webassets "github.com/eru038/Weather-BGM-Player/web"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "weather-bgm",
	})

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	app := &cli.Command{
		Name:  "weather-bgm-player",
		Usage: "Weather-aware background music for one city",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Flags:  []cli.Flag{configFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return serve(ctx, cmd.String("config"), logger)
				},
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Flags:  []cli.Flag{configFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return migrate(ctx, cmd.String("config"), logger)
				},
			},
			{
				Name:  "preview",
				Usage: "Preview the weather animation in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Starting weather category (Rain, Snow, Clear, Clouds, Default)",
						Value: string(weather.Default),
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					name := cmd.String("category")
					if !weather.Valid(name) {
						return fmt.Errorf("unknown weather category %q", name)
					}
					return preview.Run(weather.Category(name))
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

func serve(ctx context.Context, configPath string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	templatesFS, err := fs.Sub(webassets.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("templates subtree: %w", err)
	}
	staticFS, err := fs.Sub(webassets.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static subtree: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr(),
		FrontendURI: cfg.Server.FrontendURI,
		TemplatesFS: templatesFS,
		StaticFS:    staticFS,
		Logger:      logger,
		Auth: auth.New(auth.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURI:  cfg.Spotify.RedirectURI,
		}),
		Music:    spotify.NewClient(),
		Sessions: session.NewCookieStore(false),
		Store:    database.WeatherPlaylists(),
		Users:    database.Users(),
		Weather:  weather.NewClient(cfg.Weather.APIKey, cfg.Weather.City),
		Tables:   database,
	})
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	logger.Info("weather bgm player", "city", cfg.Weather.City, "addr", cfg.Addr())
	return server.Run()
}

func migrate(ctx context.Context, configPath string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}
