package main

import (
	"github.com/mcoot/broadside/internal/cli"
)

func main() {
	cli.Execute()
}
