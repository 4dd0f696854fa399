package main

import "github.com/contextops/context-cli/internal/cli"

func main() {
	cli.Execute()
}
