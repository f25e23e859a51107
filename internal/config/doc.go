// Package config provides configuration management for the capest CLI.
//
// This package handles loading, validation, and access to planner settings
// from a YAML config file, environment variables, and command-line flags.
//
// Configuration Sources:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (CAPEST_ prefix, e.g. CAPEST_DATA_DIR)
//  3. Config file ($HOME/.capest/config.yaml or --config)
//  4. Default values (lowest priority)
//
// Example usage:
//
//	v := viper.New()
//	config.SetDefaults(v, time.Now())
//	cfg, err := config.Load(v)
//	if err != nil {
//	    return fmt.Errorf("loading configuration: %w", err)
//	}
//	logger.V(logging.DEBUG).Info("planner configuration",
//	    "dataDir", cfg.DataDir,
//	    "quarter", cfg.Quarter)
//
// Configuration Validation:
//
// Values are validated on load: enumerations (log level, output format,
// storage backend) and the quarter id format.
package config
