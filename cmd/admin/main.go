package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"grievance/backend/internal/auth"
	"grievance/backend/internal/config"
	"grievance/backend/internal/department"
	"grievance/backend/internal/models"
	"grievance/backend/internal/stats"
	"grievance/backend/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  create-admin <name> <email> <password>
  create-officer <name> <email> <password> <department-id|category>
  stats`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	s := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	departments := department.NewResolver(s)
	accounts := auth.NewService(s, departments, auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
	ctx := context.Background()

	command := os.Args[1]

	switch command {
	case "create-admin":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-admin <name> <email> <password>")
			os.Exit(1)
		}
		user, err := accounts.CreateUser(ctx, auth.RegisterInput{
			Name: os.Args[2], Email: os.Args[3], Password: os.Args[4], Role: models.RoleAdmin,
		})
		if err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Admin %s created with id %s.\n", user.Email, user.ID)
	case "create-officer":
		if len(os.Args) != 6 {
			fmt.Println("Usage: admin create-officer <name> <email> <password> <department-id|category>")
			os.Exit(1)
		}
		in := auth.RegisterInput{
			Name: os.Args[2], Email: os.Args[3], Password: os.Args[4], Role: models.RoleOfficer,
		}
		if c := models.Category(os.Args[5]); c.Valid() {
			in.Category = c
		} else {
			in.DepartmentID = os.Args[5]
		}
		user, err := accounts.CreateUser(ctx, in)
		if err != nil {
			log.Fatalf("Error creating officer: %v", err)
		}
		fmt.Printf("Officer %s created with id %s in department %s.\n", user.Email, user.ID, *user.DepartmentID)
	case "stats":
		st, err := stats.NewAggregator(s).Compute(ctx)
		if err != nil {
			log.Fatalf("Error computing stats: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			log.Fatalf("Error printing stats: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}
