package main

import (
	"github.com/c9s/barfeed/pkg/cmd"
)

func main() {
	cmd.Execute()
}
