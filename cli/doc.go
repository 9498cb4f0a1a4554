// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cli implements the quickly-survey command line.

	quickly-survey serve [server flags]
	quickly-survey check [--format json] form.xml
	quickly-survey export --survey ID [--sep ;] [--sepline] [-o file] [-- server flags]

serve hands its arguments to cliparse, so flags, environment, .env and the
YAML config file behave the same for every command that opens the database.
With LOG_FILE set, records are written as JSON to a rotating file.
*/
package cli
