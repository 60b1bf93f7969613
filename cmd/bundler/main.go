package main

import "bundler/internal/cli"

func main() {
	cli.Execute()
}
