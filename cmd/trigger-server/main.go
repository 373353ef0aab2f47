package main

import "github.com/oshokin/fire-trigger/cmd/trigger-server/cmd"

func main() {
	cmd.Execute()
}
