// Package config defines the application configuration structure and
// loading. Values come from an optional config file and LEXSNAP_-prefixed
// environment variables, with environment taking precedence, and are
// validated before use.
package config
