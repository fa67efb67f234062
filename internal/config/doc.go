// Package config defines the application configuration structure and
// loading logic, backed by viper with struct-tag validation.
package config
