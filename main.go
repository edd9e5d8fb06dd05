package main

import (
	"github.com/sidkik/template-sync/cmd"
	"github.com/sidkik/template-sync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
