// Package console implements the interactive command loop that runs
// alongside the HTTP listener in the trigger-server process.
//
// An empty line raises the flag, "r"/"reset" lowers it, "q"/"quit" asks the
// process to exit cleanly. Input and output are injectable for tests.
package console
