// Package config loads the team and source configuration for a matchday run.
//
// Configuration lives in a YAML file (config.yaml by default). A .env file, when
// present, is loaded first so secrets such as API keys can be kept out of the
// YAML. The resulting Config value is passed explicitly to every pipeline stage.
package config
