// Package config loads application configuration from an optional TOML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Defaults for local development.
const (
	DefaultPort = 3000
	DefaultCity = "Tokyo"
)

// ErrMissingCredentials is returned by Validate when the Spotify application
// credentials are not configured.
var ErrMissingCredentials = errors.New("missing Spotify client ID or secret")

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Weather  WeatherConfig  `toml:"weather"`
	Database DatabaseConfig `toml:"database"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`

	// FrontendURI is where OAuth callback and logout redirect to. When
	// empty it is derived from the Spotify redirect URI.
	FrontendURI string `toml:"frontend_uri"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// WeatherConfig contains the OpenWeather settings for the fixed location.
type WeatherConfig struct {
	APIKey string `toml:"api_key"`
	City   string `toml:"city"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// Load reads the optional TOML file at path (skipped when empty or absent),
// applies environment overrides and fills derived defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No file is fine; env vars may carry everything.
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Spotify.RedirectURI, "SPOTIFY_REDIRECT_URI")
	setString(&c.Server.FrontendURI, "FRONTEND_URI")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Weather.APIKey, "OPENWEATHER_API_KEY")
	setString(&c.Weather.City, "WEATHER_CITY")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Weather.City == "" {
		c.Weather.City = DefaultCity
	}
	if c.Spotify.RedirectURI == "" {
		// Spotify requires an explicit IPv4 loopback for local development.
		c.Spotify.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", c.Server.Port)
	}
	if c.Server.FrontendURI == "" {
		c.Server.FrontendURI = frontendFromRedirect(c.Spotify.RedirectURI, c.Server.Port)
	}
}

// frontendFromRedirect derives the frontend origin from the OAuth redirect
// URI, falling back to the local port.
func frontendFromRedirect(redirectURI string, port int) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Sprintf("http://127.0.0.1:%d", port)
	}
	return u.Scheme + "://" + u.Host
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate checks the settings the serve command cannot run without.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if c.Database.URL == "" {
		return errors.New("missing database URL")
	}
	return nil
}
