// Command feedd runs the feed API on its own, without auth or media routes.
// Useful for local client development and integration tests.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spilno/spilno-backend/internal/database"
	"github.com/spilno/spilno-backend/internal/feed/handler"
	"github.com/spilno/spilno-backend/internal/feed/service"
)

func main() {
	port := os.Getenv("FEED_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Mongo-backed when MONGODB_URI is provided, memory-backed otherwise.
	var svc *service.Service
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		client, err := database.ConnectMongo(context.Background(), uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using memory-backed store", err)
			svc = service.NewMemoryService()
		} else {
			dbName := os.Getenv("MONGODB_DATABASE")
			if dbName == "" {
				dbName = "spilno"
			}
			svc = service.NewMongoService(client.Database(dbName))
		}
	} else {
		svc = service.NewMemoryService()
	}

	handler.RegisterFeedRoutes(r, svc)

	log.Printf("feed service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
