package main

import (
	"log"

	"github.com/patric-chuzhbe/storeapi/internal/app"
)

func main() {
	theApp, err := app.New()
	if err != nil {
		log.Fatalf("Error creating the application: %v", err)
	}
	defer theApp.Close()

	if err := theApp.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
