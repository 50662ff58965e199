package main

import "github.com/cord-sdk/cord-cli/internal/cli"

func main() {
	cli.Execute()
}
