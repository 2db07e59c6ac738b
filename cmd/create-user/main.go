package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexusops/fulfillment-api/internal/config"
	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-user/main.go <username> <password> <role> [shop-ids]")
		fmt.Println("Example: go run cmd/create-user/main.go ops1 secret user 1,3")
		os.Exit(1)
	}

	username := os.Args[1]
	password := os.Args[2]
	role := domain.UserRole(os.Args[3])
	if role != domain.RoleAdmin && role != domain.RoleUser {
		fmt.Fprintf(os.Stderr, "Role must be admin or user, got %q\n", os.Args[3])
		os.Exit(1)
	}

	var shopIDs []int
	if len(os.Args) > 4 {
		for _, raw := range strings.Split(os.Args[4], ",") {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid shop id %q\n", raw)
				os.Exit(1)
			}
			shopIDs = append(shopIDs, id)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() {
		fmt.Fprintln(os.Stderr, "DB_HOST must be configured to provision users")
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := &domain.User{
		Username:        username,
		Name:            username,
		Role:            role,
		PasswordHash:    string(hash),
		AssignedShopIDs: shopIDs,
		Permissions: domain.UserPermissions{
			ManageOrders:  true,
			ViewDashboard: true,
		},
	}

	repo := postgres.NewUserRepository(db, logger)
	if err := repo.Upsert(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User %q created with role %s\n", username, role)
	if len(shopIDs) > 0 {
		fmt.Printf("Assigned shops: %v\n", shopIDs)
	}
}
