// Package app wires configuration, services, and the HTTP router into a
// runnable application with graceful shutdown.
package app
