// Package updater downloads and applies binary updates for rig and server machines.
//
// It fetches a YAML manifest with SHA512 checksums from the configured update
// folder, stops the known trigger processes, swaps outdated files via
// go-update and restarts the role executable. A marker file prevents
// concurrent updater runs.
package updater
