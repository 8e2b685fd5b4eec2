package main

import "pomoplayer/cmd/pomoplayer/commands"

func main() {
	commands.Execute()
}
