package main

import (
	"log"

	"github.com/LFKoning/git-scan/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("git-scan: %v", err)
	}
}
