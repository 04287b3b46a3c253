package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=transfer_engine_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultMigrationsDir = "migrations"

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	ListenAddr    string
	// SessionTTL of zero disables session expiry.
	SessionTTL time.Duration
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = defaultMigrationsDir
	}

	sessionTTL := time.Duration(0)
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_MINUTES must be a non-negative integer, got %q", raw)
		}
		sessionTTL = time.Duration(minutes) * time.Minute
	}

	return Config{
		DatabaseDSN:   normalizeConnectionString(conn),
		MigrationsDir: migrationsDir,
		ListenAddr:    listenAddr,
		SessionTTL:    sessionTTL,
	}, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
