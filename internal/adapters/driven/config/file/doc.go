// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.playbook/config.toml unless another directory is
// given. The file is rewritten atomically with 0600 permissions on every Set.
package file
