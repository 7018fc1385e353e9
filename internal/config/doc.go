// Package config loads the project settings from .actiongenrc.yaml in the
// project directory. Scalar settings can be overridden with ACTIONGEN_*
// environment variables, which may come from .env.local and .env files.
package config
