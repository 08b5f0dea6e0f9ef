package main

import "github.com/undff/lzt-donate/internal/cli"

func main() {
	cli.Execute()
}
