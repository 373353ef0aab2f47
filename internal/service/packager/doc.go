// Package packager builds the update manifest distributed to rig and server machines.
//
// It records SHA512 checksums for every release artifact, per-role file lists
// and restart executables, and verifies the trigger server is reachable
// before producing a release.
package packager
