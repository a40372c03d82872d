package controllers

import (
	"errors"
	"net/http"
	"strings"

	"academia-backend/models"
	"academia-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationInput defines the expected JSON structure for creating or
// updating a location.
type LocationInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// GroupSummary is a group with its member count, used when a location is
// fetched with include_groups.
type GroupSummary struct {
	models.Group
	ClientCount int `json:"client_count" gorm:"column:client_count"`
}

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(db *gorm.DB) *LocationController {
	return &LocationController{DB: db}
}

// Get handles get-by-id (?id=, optionally ?include_groups=) and the
// unfiltered list.
func (ct *LocationController) Get(c *gin.Context) {
	rawID := c.Query("id")
	if rawID == "" {
		var locations []models.Location
		if err := ct.DB.Order("name ASC").Find(&locations).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve locations")
			return
		}
		c.JSON(http.StatusOK, gin.H{"locations": locations})
		return
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid location ID format")
		return
	}

	var location models.Location
	if err := ct.DB.First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Location not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !queryFlag(c, "include_groups") {
		c.JSON(http.StatusOK, gin.H{"location": location})
		return
	}

	var groups []GroupSummary
	err = ct.DB.Model(&models.Group{}).
		Select("groups.*, COUNT(client_groups.client_id) AS client_count").
		Joins("LEFT JOIN client_groups ON client_groups.group_id = groups.id").
		Where("groups.location_id = ?", id).
		Group("groups.id").
		Order("groups.name ASC").
		Scan(&groups).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "groups": groups})
}

// Create adds a location; names are unique ignoring case.
func (ct *LocationController) Create(c *gin.Context) {
	var input LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithValidationErrors(c, map[string]string{"name": "must not be empty"})
		return
	}

	taken, err := ct.nameTaken(name, uuid.Nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "A location with this name already exists")
		return
	}

	location := models.Location{
		ID:      uuid.New(),
		Name:    name,
		Address: input.Address,
		Phone:   input.Phone,
	}
	if err := ct.DB.Create(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "A location with this name already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create location")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// Update replaces a location's fields.
func (ct *LocationController) Update(c *gin.Context) {
	id, ok := requireIDParam(c, "Invalid location ID format")
	if !ok {
		return
	}

	var input LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithValidationErrors(c, map[string]string{"name": "must not be empty"})
		return
	}

	taken, err := ct.nameTaken(name, id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "A location with this name already exists")
		return
	}

	res := ct.DB.Model(&models.Location{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":    name,
		"address": input.Address,
		"phone":   input.Phone,
	})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update location")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Location not found")
		return
	}

	var location models.Location
	if err := ct.DB.First(&location, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// Delete removes a location. A location still referenced by a group or a
// client association fails with a referential error; nothing cascades. The
// reference check runs before the delete because sqlite does not reliably
// translate a delete-path FK violation into gorm.ErrForeignKeyViolated.
func (ct *LocationController) Delete(c *gin.Context) {
	id, ok := requireIDParam(c, "Invalid location ID format")
	if !ok {
		return
	}

	var groupRefs, clientRefs int64
	if err := ct.DB.Model(&models.Group{}).Where("location_id = ?", id).Count(&groupRefs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := ct.DB.Model(&models.ClientLocation{}).Where("location_id = ?", id).Count(&clientRefs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if groupRefs+clientRefs > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Location is referenced by groups or clients")
		return
	}

	res := ct.DB.Delete(&models.Location{}, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			utils.RespondWithError(c, http.StatusConflict, "Location is referenced by groups or clients")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete location")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Location not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ct *LocationController) nameTaken(name string, excludeID uuid.UUID) (bool, error) {
	query := ct.DB.Model(&models.Location{}).Where("lower(name) = lower(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// requireIDParam reads and parses the mandatory ?id= query param.
func requireIDParam(c *gin.Context, invalidMsg string) (uuid.UUID, bool) {
	rawID := c.Query("id")
	if rawID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing query param: id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, invalidMsg)
		return uuid.Nil, false
	}
	return id, true
}

// queryFlag reads a boolean query param the way the front-end sends it.
func queryFlag(c *gin.Context, name string) bool {
	value := c.Query(name)
	return value == "true" || value == "1"
}
