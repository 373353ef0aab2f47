package main

import "github.com/oshokin/fire-trigger/cmd/trigger-updater/cmd"

func main() {
	cmd.Execute()
}
