package main

import "github.com/oshokin/fire-trigger/cmd/trigger-fire/cmd"

func main() {
	cmd.Execute()
}
