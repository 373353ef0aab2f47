// Package server hosts the fired flag and its two input surfaces.
//
// The unexported service owns the mutex-guarded state; Run wires it into an
// HTTP listener (gorilla/mux routes) and the interactive console loop, and
// handles graceful shutdown for both.
package server
