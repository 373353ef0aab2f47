// Package watcher is the rig-side poller of the fired flag.
//
// It checks /status at a fixed interval and launches the configured capture
// command exactly once per fire event, re-arming after the flag is reset.
package watcher
