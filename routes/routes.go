package routes

import (
	"net/http"

	"academia-backend/config"
	"academia-backend/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Unsupported method on a known path must answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	clients := controllers.NewClientController(db)
	locations := controllers.NewLocationController(db)
	groups := controllers.NewGroupController(db)
	dashboard := controllers.NewDashboardController(db)

	// Entities are addressed by query params (?id=), mirroring the API the
	// front-end consumes. Clients have no DELETE: deactivation goes through
	// PATCH {is_active: false}.
	r.GET("/clients", clients.Get)
	r.POST("/clients", clients.Create)
	r.PUT("/clients", clients.Update)
	r.PATCH("/clients", clients.Patch)

	r.GET("/locations", locations.Get)
	r.POST("/locations", locations.Create)
	r.PUT("/locations", locations.Update)
	r.DELETE("/locations", locations.Delete)

	r.GET("/groups", groups.Get)
	r.POST("/groups", groups.Create)
	r.PUT("/groups", groups.Update)
	r.DELETE("/groups", groups.Delete)

	r.GET("/dashboard", dashboard.Overview)

	return r
}
