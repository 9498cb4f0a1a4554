// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: SQLite path or PostgreSQL connection string (default: quickly-survey.db for sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - LogFile: Rotating JSON log file (default: text logs on stdout)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-c            YAML config file
	-env          dotenv file (default .env)
	-p            Server port
	-d            Database URL
	-t            Database type
	--admin-salt  Admin key salt
	--log-file    Log file
	--log-level   Log level

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → --admin-salt
	LOG_FILE       → --log-file
	LOG_LEVEL      → --log-level
	CONFIG_FILE    → -c

A .env file is loaded first; it never overrides variables that are
already set.

# Config File

The YAML file uses the same settings in snake case:

	port: 3318
	database_type: postgres
	database_url: postgres://survey@localhost/survey?sslmode=disable
	admin_key_salt: change-me
	log_level: debug

Precedence: flags, then environment, then config file, then defaults.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(store, cfg)
*/
package cliparse
