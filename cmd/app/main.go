package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/vendrhub/klarna-hpp/internal/app"
)

func main() {
	// Optional in production; local runs keep credentials in .env.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}
