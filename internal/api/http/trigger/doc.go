// Package trigger exposes the fired flag over HTTP.
//
// Three GET routes form the wire contract: /fire raises the flag, /reset
// lowers it, /status reports FIRE or WAIT. Responses are plain text so that
// rig-side scripts can consume them without a parser.
package trigger
