package main

import (
	"log"

	"github.com/khemrajubaledeloitte/ocr-test/internal/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
