package main

import "github.com/AlebrijeLabs/albj-discord-bot/cmd"

func main() {
	cmd.Execute()
}
