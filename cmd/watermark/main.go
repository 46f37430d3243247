package main

import (
	"log"

	"github.com/leodido/watermarks/cmd/watermark/cli"
)

func main() {
	log.SetFlags(0)
	c, err := cli.NewRootC()
	if err != nil {
		log.Fatalln(err)
	}

	if err := c.Execute(); err != nil {
		log.Fatalln(err)
	}
}
