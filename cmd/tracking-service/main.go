package main

import (
	"log"

	"github.com/warrantydesk/tracking-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
