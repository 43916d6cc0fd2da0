// Package cli implements the command-line interface of sirecipe, the silicium
// package recipe engine.
//
// # Overview
//
// sirecipe loads versioned package recipes and stages files for them: it
// exports a package's public headers into an include layout and copies the
// runtime libraries of a package's dependencies into a consumer's binary
// output directory.
//
// # Commands
//
// versions - List the recipe table:
//
//	sirecipe versions [--name silicium]
//
// show - Print the recipe document of a resolved version:
//
//	sirecipe show --name silicium [--version 0.2]
//
// deps - List the requirements of a recipe version:
//
//	sirecipe deps --name silicium --version 0.1.0
//
// validate - Validate recipe documents:
//
//	sirecipe validate recipes/*.yaml
//
// export - Copy the exported sources of a recipe into a package root:
//
//	sirecipe export --name silicium --source ./src --package ./pkg
//
// import - Copy dependency runtime libraries into a binary directory:
//
//	sirecipe import --name silicium --dep Boost=/deps/boost --bin ./build
//
// clean - Remove temp files left behind by interrupted runs:
//
//	sirecipe clean ./pkg ./build
//
// # Global Flags
//
//	--recipes       Directory of recipe documents (default: built-in recipes)
//	--log-level     Logging verbosity (debug, info, warn, error)
//	--metrics-file  Write Prometheus metrics to this file on exit
//
// # Output Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//
// # Apply Flags
//
// export and import share:
//
//	--dry-run      Report the copies that would happen without writing
//	--plan         Print the staging plan and exit
//	--parallel     Number of concurrent copies
//	--compare      Up-to-date check: content or mtime
//	--rate-limit   Maximum copies per second (0 means unlimited)
//	--no-clean     Keep stale temp files of earlier runs
//
// # Environment Variables
//
//	SIRECIPE_RECIPES   Default for --recipes
//	SIRECIPE_PARALLEL  Default for --parallel
//	LOG_LEVEL          Default for --log-level
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, invalid recipe, failed files)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/TyRoXx/silicium/pkg/cli.version=1.0.0'"
package cli
