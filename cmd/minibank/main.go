package main

import "minibank/cmd/minibank/cli"

func main() {
	cli.Execute()
}
