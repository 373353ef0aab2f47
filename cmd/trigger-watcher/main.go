package main

import "github.com/oshokin/fire-trigger/cmd/trigger-watcher/cmd"

func main() {
	cmd.Execute()
}
