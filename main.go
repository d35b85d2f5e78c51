package main

import (
	"os"

	"github.com/0xbeedee/weaver/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
