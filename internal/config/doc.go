// Package config provides centralized configuration management for storecli.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STORE_<SECTION>_<FIELD>:
//
//	STORE_INPUT_PATH=data/superstore.csv
//	STORE_INPUT_ENCODING=latin1
//	STORE_REPORT_TOP_N=10
//	STORE_OUTPUT_FORMATS=csv,json,xlsx
//	STORE_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load("store.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For tests, Default returns a configuration that needs no environment.
package config
