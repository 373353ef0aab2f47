package main

import "github.com/oshokin/fire-trigger/cmd/trigger-reset/cmd"

func main() {
	cmd.Execute()
}
