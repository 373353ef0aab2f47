// Package client pushes a desired fired state to the trigger server.
//
// It retries once per second until the server confirms the value, which
// makes the trigger-fire and trigger-reset binaries safe to run while the
// server restarts.
package client
