package main

import "github.com/diogo/mcpchat/internal/commands"

func main() {
	commands.Execute()
}
