// Package config defines connection settings used by binaries and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the trigger server HTTP address, the update folder
// URL and the capture command launched by watchers.
package config
