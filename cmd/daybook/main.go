package main

import (
	"log"

	"github.com/ddanilov/daybook/internal/client/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
