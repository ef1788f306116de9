package main

import (
	"codeberg.org/miketth/kbisw/cmd"
	"log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("error: %+v", err)
	}
}
