package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arkdex/arkdex/backend/go-services/internal/database"
	"github.com/arkdex/arkdex/backend/go-services/internal/scrape"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/handler"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/service"
)

// Standalone trivia store service: the document API without the cache,
// archive and auth wiring of the monolith. Useful for local development
// and integration tests.
func main() {
	port := os.Getenv("TRIVIA_SERVICE_PORT")
	if port == "" {
		port = "5021"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Prefer Mongo-backed service when MONGODB_URI is provided.
	var svc service.Service
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		// attempt a connection with a short timeout; fall back to memory on failure
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repo", err)
			svc = service.NewMemoryService()
		} else {
			dbName := os.Getenv("MONGODB_DATABASE")
			if dbName == "" {
				dbName = "arkdex"
			}
			col := client.Database(dbName).Collection("trivia")
			svc = service.NewMongoService(col)
		}
	} else {
		svc = service.NewMemoryService()
	}

	scraper := scrape.New(scrape.Config{BaseURL: os.Getenv("SCRAPE_BASE_URL")}, nil)
	handler.RegisterTriviaRoutes(r, svc, scraper, nil, nil)

	log.Printf("go-trivia service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
