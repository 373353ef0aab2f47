package main

import "github.com/oshokin/fire-trigger/cmd/trigger-packager/cmd"

func main() {
	cmd.Execute()
}
