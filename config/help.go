package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const HelpMessage = `fastlane: speed-boosted trip planning and drive simulation

Usage:
  fastlane -mode=nav-service
  fastlane -mode=simulate -destination=Airport -speed=20 [-interval=10ms] [-max-ticks=N]

Modes:
  nav-service   HTTP + WebSocket API backed by PostgreSQL and RabbitMQ
  simulate      headless drive, one JSON snapshot per tick on stdout

Configuration is read from .env, config.yaml and the environment (see config.yaml).

Flags:
`

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, HelpMessage)
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(w io.Writer, cfg *Config) {
	var b strings.Builder
	line := func(k string, v any) { fmt.Fprintf(&b, "  %-26s %v\n", k, v) }

	b.WriteString("config:\n")
	line("mode", cfg.Mode)
	line("http.addr", cfg.HTTP.Addr())
	line("http.cors_origins", cfg.HTTP.Origins())
	line("database.host", cfg.Database.Host+":"+cfg.Database.Port)
	line("database.user", cfg.Database.User)
	line("database.password", mask(cfg.Database.Password))
	line("database.name", cfg.Database.Database)
	line("rabbitmq.host", cfg.RabbitMQ.Host+":"+cfg.RabbitMQ.Port)
	line("rabbitmq.user", cfg.RabbitMQ.User)
	line("rabbitmq.password", mask(cfg.RabbitMQ.Password))
	line("auth.access_token_ttl", cfg.Auth.AccessTokenTTL)
	line("auth.jwt_secret", mask(cfg.Auth.JWTSecret))
	line("drive.tick_interval", cfg.Drive.TickInterval)
	line("drive.stop_on_arrival", cfg.Drive.StopOnArrival)
	line("drive.progress_every", cfg.Drive.ProgressEvery)
	line("drive.persist_every", cfg.Drive.PersistEvery)
	line("drive.arrived_retention", cfg.Drive.ArrivedRetention)
	line("catalog.driver", cfg.Catalog.Driver)
	line("catalog.path", cfg.Catalog.Path)
	line("log.level", cfg.Log.Level)

	fmt.Fprint(w, b.String())
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
