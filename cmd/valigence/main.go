package main

import "github.com/valigence-labs/valigence-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
