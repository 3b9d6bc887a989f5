package main

import (
	"Wordspy/config"
	_ "Wordspy/config/swagger"
	"Wordspy/middleware"
	"Wordspy/routes"
	"Wordspy/services/engine"
	"Wordspy/services/game"
	"Wordspy/services/redis"
	"Wordspy/services/rooms"
	"Wordspy/services/sessions"
	"Wordspy/services/socket_io"
	roomsync "Wordspy/services/sync"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Wordspy API
// @version 1.0
// @description Gin-Gonic server for the Wordspy social deduction game
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	// Games keep running on the in-memory fallback while Redis is down
	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Printf("Warning: Redis unavailable, running on the in-memory session fallback: %v", err)
		redisClient = nil
	} else {
		defer redis.CloseRedis(redisClient)
	}

	// Room storage: durable Postgres rows by default, in-memory for
	// single-node deployments and local development
	var roomStore rooms.Store
	if os.Getenv("ROOM_STORE") == "memory" {
		roomStore = rooms.NewMemoryStore()
	} else {
		roomStore = rooms.NewPostgresStore(gormDB)
	}

	locks := roomsync.NewManager()
	registry := rooms.NewRegistry(roomStore, locks)
	sessionStore := sessions.NewStore(redisClient)
	src := engine.NewLockedSource(rand.NewSource(time.Now().UnixNano()))
	words := game.NewDictionary(rand.New(src))
	eng := engine.New(registry, sessionStore, locks, words, src)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, gormDB, registry)

	sio := &socket_io.MySocketServer{}
	sio.Start(r, gormDB, registry, eng, locks)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		if os.Getenv("USE_HTTPS") == "true" {
			port = "443"
		} else {
			port = "8080"
		}
	}

	if os.Getenv("USE_HTTPS") == "true" {
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}
