package main

import (
	"github.com/TyRoXx/silicium/pkg/cli"
)

func main() {
	cli.Execute()
}
