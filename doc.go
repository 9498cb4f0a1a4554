// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey runs questionnaire-based surveys. Owners upload XML
questionnaire forms, attach them to surveys, collect validated responses
and export them as delimited text.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	ADMIN_KEY_SALT=... go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..." -admin-salt ...

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string or SQLite file (default: quickly-survey.db)
  - LOG_FILE (-log-file): Rotating JSON log file (default: stdout)
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - CONFIG_FILE (-c): YAML file with the same settings

# Architecture

  - form: Questionnaire and answer document loading against the schema
  - catalog: Question catalog extraction and caching
  - response: Submission validation
  - export: Per-respondent projection and delimited text
  - survey: Service tying the above to a store
  - handlers, router, middleware, models, auth: HTTP API
  - db: SQLite and PostgreSQL storage
  - cliparse, cli: Configuration and commands

See package documentation for each component.
*/
package main
