// Package config provides layered settings resolution for satellite.
//
// # Overview
//
// Connection and behavior settings come from two layers: SATELLITE_*
// environment variables and a satellite.yml file. The environment layer
// always wins; an empty or absent environment value falls through to the
// file layer. A key defined in neither layer is reported with a
// distinguishable ErrKeyUndefined so callers can tell "not configured"
// apart from "configured empty".
//
// # Components
//
// Source: the lookup capability implemented by every layer. EnvSource
// reads SATELLITE_* variables, FileSource reads a schema-validated
// satellite.yml, and Layered composes them with the precedence above.
//
// SchemaRegistry: compiles the embedded CUE schema the file layer is
// validated against at load time. A file that does not match the schema
// is rejected before resolution starts.
//
// Resolver: builds validated engine.Settings from a Source. Required
// settings (host, user, path) missing from every layer fail resolution;
// the port must be digits-only and defaults to 22 only when no layer
// defines it; plugin lists are tokenized on whitespace and commas with
// nil kept distinct from empty.
//
// # Usage Example
//
//	file, err := config.NewFileSource("satellite.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	source := config.NewLayered(config.NewEnvSource(), file)
//	resolver := config.NewResolver(source, run, logger)
//
//	settings, err := resolver.Resolve(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Sources are read-only after construction and safe for concurrent use.
package config
