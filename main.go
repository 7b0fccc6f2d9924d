package main

import "github.com/racodess/flashcard-generator/cmd"

func main() {
	cmd.Execute()
}
