package main

import (
	"os"

	"github.com/willyosu/willybot/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := cmd.Execute(version, commit); err != nil {
		os.Exit(1)
	}
}
