package main

import "github.com/extramurs/matchday/internal/cli"

func main() {
	cli.Execute()
}
