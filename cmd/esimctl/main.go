package main

import (
	"os"

	"github.com/BouramaNG/designfrontwaw-sub001/cmd/esimctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
