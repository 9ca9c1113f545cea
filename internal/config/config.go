package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds application level configuration loaded from file, environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	BcryptCost      int
	HashWorkers     int
	HashQueue       int
	ShutdownTimeout time.Duration
	LoginRate       float64
	LoginBurst      int
	LogLevel        string
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// honoured when resolving the client address. Empty means none.
	TrustedProxies []string
}

const (
	defaultRunAddress      = ":8080"
	defaultHashWorkers     = 4
	defaultHashQueue       = 64
	defaultShutdownTimeout = 10 * time.Second
	defaultLoginRate       = 1.0
	defaultLoginBurst      = 5
	defaultLogLevel        = "info"
)

// Load parses configuration from the optional config file, environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, env envLookup) (*Config, error) {
	lookup := env
	if path := configPath(args, env); path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		lookup = withFallback(env, k)
	}

	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		JWTSecret:       getString(lookup, "JWT_SECRET", ""),
		BcryptCost:      getInt(lookup, "BCRYPT_COST", 0),
		HashWorkers:     getInt(lookup, "HASH_WORKERS", defaultHashWorkers),
		HashQueue:       getInt(lookup, "HASH_QUEUE", defaultHashQueue),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LoginRate:       getFloat(lookup, "LOGIN_RATE", defaultLoginRate),
		LoginBurst:      getInt(lookup, "LOGIN_BURST", defaultLoginBurst),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}
	trustedProxies := getString(lookup, "TRUSTED_PROXIES", "")

	fs := flag.NewFlagSet("storerating", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	shutdownTimeoutStr := cfg.ShutdownTimeout.String()
	fs.String("config", "", "Path to a YAML config file")

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing session tokens")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost for new password hashes")
	fs.IntVar(&cfg.HashWorkers, "hash-workers", cfg.HashWorkers, "Number of concurrent password hashing workers")
	fs.IntVar(&cfg.HashQueue, "hash-queue", cfg.HashQueue, "Pending password hashing jobs")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.Float64Var(&cfg.LoginRate, "login-rate", cfg.LoginRate, "Login attempts per second allowed per client")
	fs.IntVar(&cfg.LoginBurst, "login-burst", cfg.LoginBurst, "Login attempts burst per client")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	fs.StringVar(&trustedProxies, "trusted-proxies", trustedProxies, "Comma separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.TrustedProxies = splitList(trustedProxies)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.HashWorkers <= 0 {
		cfg.HashWorkers = defaultHashWorkers
	}

	if cfg.HashQueue <= 0 {
		cfg.HashQueue = defaultHashQueue
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.LoginRate <= 0 {
		cfg.LoginRate = defaultLoginRate
	}

	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = defaultLoginBurst
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

// configPath prefers the -config flag over CONFIG_FILE. The flag is
// looked up before the full parse because the file feeds flag defaults.
func configPath(args []string, env envLookup) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "config" || !strings.HasPrefix(arg, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	path, _ := env("CONFIG_FILE")
	return path
}

// withFallback resolves keys from the environment first and the config file second.
// File keys are the lower-cased environment names, e.g. database_uri.
func withFallback(env envLookup, k *koanf.Koanf) envLookup {
	return func(key string) (string, bool) {
		if v, ok := env(key); ok && v != "" {
			return v, true
		}
		fileKey := strings.ToLower(key)
		if !k.Exists(fileKey) {
			return "", false
		}
		return k.String(fileKey), true
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
