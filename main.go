package main

import (
	"fmt"
	"log"
	"os"

	"academia-backend/config"
	"academia-backend/routes"
	"academia-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := config.Connect(dsn)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	reconciler := services.NewReconciler(db)
	cronSpec := os.Getenv("RECONCILE_CRON")
	if cronSpec == "" {
		cronSpec = "0 3 * * *"
	}
	if err := reconciler.StartScheduler(cronSpec); err != nil {
		log.Fatalf("Failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(db)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
