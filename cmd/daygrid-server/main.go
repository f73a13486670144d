package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/existflow/daygrid/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dbURL = filepath.Join(home, ".daygrid", "server.db")
	}

	secret := os.Getenv("DAYGRID_SECRET")
	if secret == "" {
		log.Fatal("DAYGRID_SECRET must be set")
	}

	uploadDir := os.Getenv("DAYGRID_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	srv, err := server.New(server.Config{
		DatabaseURL: dbURL,
		Secret:      secret,
		UploadDir:   uploadDir,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("daygrid server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
