// Package config loads runtime configuration for the storyboard REPL and
// HTTP server.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-env path, or ./.env when present) and the process
//     environment. The model key is read from GEMINI_API_KEY, falling back
//     to API_KEY.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   HTTP listen address
//	-k string   model API key
//	-l string   message language (zh|en)
//	-d string   journal DSN (sqlite path or postgres:// URL, empty disables)
//	-t string   export target (dir|s3)
//	-o string   export directory
//	-v string   log level (debug|info|warn|error)
//	-n int      default scene count
//	-i int      video status poll interval (seconds)
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "http_addr": ":8080",
//	  "poll_interval": "10s",
//	  "poll_max_attempts": 90,
//	  "language": "en",
//	  "export_target": "s3",
//	  "s3_bucket": "storyboards"
//	}
package config
