package controllers

import (
	"net/http"
	"time"

	"academia-backend/models"
	"academia-backend/services"
	"academia-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardOverview aggregates the active clients that have a scheduled
// payment date, bucketed by payment status. The buckets are computed live
// by the classifier; the cached payment_status column is never trusted
// here.
type DashboardOverview struct {
	Clients []DashboardClient `json:"clients"`
	Summary StatusSummary     `json:"summary"`
}

type DashboardClient struct {
	models.Client
	// CurrentStatus is classified at request time, unlike the cached
	// PaymentStatus column carried inside Client.
	CurrentStatus models.PaymentStatus `json:"current_status"`
}

type StatusSummary struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

func (ct *DashboardController) Overview(c *gin.Context) {
	var clients []models.Client
	err := ct.DB.
		Where("is_active = ? AND payment_date IS NOT NULL", true).
		Order("surname ASC, name ASC").
		Find(&clients).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	now := time.Now().UTC()
	overview := DashboardOverview{Clients: make([]DashboardClient, 0, len(clients))}
	for _, client := range clients {
		status := services.ClassifyPayment(*client.PaymentDate, client.LastPayment, now)
		switch status {
		case models.PaymentStatusGreen:
			overview.Summary.Green++
		case models.PaymentStatusYellow:
			overview.Summary.Yellow++
		default:
			overview.Summary.Red++
		}
		overview.Clients = append(overview.Clients, DashboardClient{Client: client, CurrentStatus: status})
	}

	c.JSON(http.StatusOK, overview)
}
