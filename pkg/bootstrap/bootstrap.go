// Package bootstrap wires up logging, environment configuration and the
// external service clients.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/swimbikerun/trisync/pkg/infrastructure/oauth"
	"github.com/swimbikerun/trisync/pkg/notion"
	"github.com/swimbikerun/trisync/pkg/strava"
)

// Config holds credentials and store identifiers read from the environment.
type Config struct {
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string

	NotionToken    string
	ActivitiesDBID string
	PlannedDBID    string
	SportsDBID     string // optional; enables the category-relation lookup

	SentryDSN   string
	Environment string
}

// Service holds initialized dependencies.
type Service struct {
	Strava *strava.Client
	Notion *notion.Client
	Config *Config
}

// LoadConfig reads configuration from environment variables. Missing required
// credentials or store identifiers are fatal: nothing is processed without them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		StravaClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		StravaRefreshToken: os.Getenv("STRAVA_REFRESH_TOKEN"),
		NotionToken:        os.Getenv("NOTION_TOKEN"),
		ActivitiesDBID:     os.Getenv("NOTION_ACTIVITIES_DB_ID"),
		PlannedDBID:        os.Getenv("NOTION_PLANNED_DB_ID"),
		SportsDBID:         os.Getenv("NOTION_SPORTS_DB_ID"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		Environment:        os.Getenv("ENVIRONMENT"),
	}

	var missing []string
	for name, val := range map[string]string{
		"STRAVA_CLIENT_ID":        cfg.StravaClientID,
		"STRAVA_CLIENT_SECRET":    cfg.StravaClientSecret,
		"STRAVA_REFRESH_TOKEN":    cfg.StravaRefreshToken,
		"NOTION_TOKEN":            cfg.NotionToken,
		"NOTION_ACTIVITIES_DB_ID": cfg.ActivitiesDBID,
		"NOTION_PLANNED_DB_ID":    cfg.PlannedDBID,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// GetSlogHandlerOptions returns standard handler options for structured output
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
	component string
}

// WithGroup implements slog.Handler
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{
		Handler:   h.Handler.WithGroup(name),
		component: h.component,
	}
}

// WithAttrs implements slog.Handler
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newComp := h.component
	for _, a := range attrs {
		if a.Key == "component" {
			newComp = a.Value.String()
		}
	}
	return &ComponentHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		component: newComp,
	}
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	comp := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			comp = a.Value.String()
			return false // stop
		}
		return true
	})

	if comp != "" {
		newMsg := fmt.Sprintf("[%s] %s", comp, r.Message)
		newRecord := slog.NewRecord(r.Time, r.Level, newMsg, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			newRecord.AddAttrs(a)
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// NewLogger creates a configured logger instance. Level comes from LOG_LEVEL.
func NewLogger(serviceName string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := GetSlogHandlerOptions(level)
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

// NewService initializes the external service clients from config.
func NewService(ctx context.Context, cfg *Config) *Service {
	tokenSource := oauth.NewRefreshTokenSource(
		cfg.StravaClientID,
		cfg.StravaClientSecret,
		cfg.StravaRefreshToken,
		oauth.StravaTokenURL,
	)

	return &Service{
		Strava: strava.NewClient(oauth.NewHTTPClient(tokenSource)),
		Notion: notion.NewClient(cfg.NotionToken),
		Config: cfg,
	}
}
