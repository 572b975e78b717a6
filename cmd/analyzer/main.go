package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"grievance/backend/internal/analysis"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARN: no .env file loaded, using process environment")
	}

	port := os.Getenv("ANALYZER_PORT")
	if port == "" {
		port = "8000"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        analysis.NewRouter(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("INFO: analysis service listening on %s", server.Addr)
	log.Fatal(server.ListenAndServe())
}
