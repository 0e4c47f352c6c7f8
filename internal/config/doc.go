// Package config provides centralized configuration management for the
// Superstore analytics service. It handles loading configuration from
// multiple sources, validation, and a type-safe API for the rest of the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the SUPERSTORE_* pattern:
//
//	SUPERSTORE_SERVER_PORT=8080
//	SUPERSTORE_DATASET_PATH=data/superstore.csv
//	SUPERSTORE_DATASET_STRICT_DATES=true
//	SUPERSTORE_LOGGING_LEVEL=debug
//
// # Configuration File
//
// When --config is not given, config.yaml is searched for in the working
// directory, in config/, and next to the executable:
//
//	server:
//	  port: 8080
//	dataset:
//	  path: data/superstore.csv
//	  encoding: latin1
//	report:
//	  output_dir: report
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := &http.Server{Addr: cfg.Server.Address()}
package config
