package main

import "github.com/Vladimir7280/catbuffer-typescript-sub001/internal/cli"

func main() {
	cli.Execute()
}
