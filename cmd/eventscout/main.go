package main

import "github.com/techgrid/eventscout/internal/cli"

func main() {
	cli.Execute()
}
