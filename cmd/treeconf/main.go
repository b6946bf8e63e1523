package main

import (
	"log"

	internalcli "github.com/leodido/treeconf/internal/cli"
)

func main() {
	log.SetFlags(0)
	c, err := internalcli.NewRootC()
	if err != nil {
		log.Fatalln(err)
	}

	if err := c.Execute(); err != nil {
		log.Fatalln(err)
	}
}
