package main

import "github.com/corbett/minibar/internal/cli"

func main() {
	cli.Execute()
}
