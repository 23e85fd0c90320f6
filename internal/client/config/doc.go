// Package config loads runtime configuration for the Chatop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config/-c.
//  3. Command-line flags bound with BindFlags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3001",
//	  "request_timeout": "10s",
//	  "page_size": 20
//	}
package config
