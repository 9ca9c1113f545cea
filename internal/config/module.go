package config

import "go.uber.org/fx"

// Module provides *Config loaded from the config file, environment and flags.
var Module = fx.Module("config", fx.Provide(Load))
