package main

import "github.com/soval/gemgrid/internal/cli"

func main() {
	cli.Execute()
}
