package main

import "revivalhub/cmd/cli/command"

func main() {
	command.Execute()
}
