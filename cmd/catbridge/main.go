package main

import (
	"context"
	"log"

	"github.com/indexdata/catbridge/app"
)

func main() {
	err := app.Run(context.Background())
	if err != nil {
		log.Fatalf("catbridge failed: %v\n", err)
	}
}
