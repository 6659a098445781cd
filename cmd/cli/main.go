package main

import "github.com/mcoot/goban-go/internal/cli"

func main() {
	cli.Execute()
}
