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

// GroupInput defines the expected JSON structure for creating or updating a
// class group.
type GroupInput struct {
	Name       string `json:"name" binding:"required"`
	Schedule   string `json:"schedule"`
	DayOfWeek  string `json:"day_of_week"`
	LocationID string `json:"location_id" binding:"required"`
}

// GroupView is a group with its location resolved and, on lists, its member
// count.
type GroupView struct {
	models.Group
	Location    NamedRef `json:"location"`
	ClientCount int      `json:"client_count"`
}

type GroupController struct {
	DB *gorm.DB
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db}
}

// Get handles get-by-id (?id=, optionally ?include_clients=) and the
// unfiltered list.
func (ct *GroupController) Get(c *gin.Context) {
	rawID := c.Query("id")
	if rawID == "" {
		ct.list(c)
		return
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	var group models.Group
	if err := ct.DB.Preload("Location").First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Group not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	view := GroupView{
		Group:    group,
		Location: NamedRef{ID: group.Location.ID, Name: group.Location.Name},
	}

	if !queryFlag(c, "include_clients") {
		c.JSON(http.StatusOK, gin.H{"group": view})
		return
	}

	var clients []models.Client
	err = ct.DB.
		Joins("JOIN client_groups ON client_groups.client_id = clients.id").
		Where("client_groups.group_id = ? AND clients.is_active = ?", id, true).
		Order("clients.surname ASC, clients.name ASC").
		Find(&clients).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": view, "clients": clients})
}

func (ct *GroupController) list(c *gin.Context) {
	type groupRow struct {
		models.Group
		LocationName string `gorm:"column:location_name"`
		ClientCount  int    `gorm:"column:client_count"`
	}

	var rows []groupRow
	err := ct.DB.Model(&models.Group{}).
		Select("groups.*, locations.name AS location_name, COUNT(client_groups.client_id) AS client_count").
		Joins("JOIN locations ON locations.id = groups.location_id").
		Joins("LEFT JOIN client_groups ON client_groups.group_id = groups.id").
		Group("groups.id, locations.name").
		Order("groups.name ASC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve groups")
		return
	}

	views := make([]GroupView, 0, len(rows))
	for _, row := range rows {
		views = append(views, GroupView{
			Group:       row.Group,
			Location:    NamedRef{ID: row.LocationID, Name: row.LocationName},
			ClientCount: row.ClientCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"groups": views})
}

// Create adds a group; names are unique ignoring case and the location must
// exist.
func (ct *GroupController) Create(c *gin.Context) {
	input, locationID, ok := ct.bindInput(c)
	if !ok {
		return
	}

	taken, err := ct.nameTaken(input.Name, uuid.Nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "A group with this name already exists")
		return
	}

	group := models.Group{
		ID:         uuid.New(),
		Name:       input.Name,
		Schedule:   input.Schedule,
		DayOfWeek:  input.DayOfWeek,
		LocationID: locationID,
	}
	if err := ct.DB.Create(&group).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			utils.RespondWithValidationErrors(c, map[string]string{"location_id": "unknown location"})
		case errors.Is(err, gorm.ErrDuplicatedKey):
			utils.RespondWithError(c, http.StatusConflict, "A group with this name already exists")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create group")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// Update replaces a group's fields.
func (ct *GroupController) Update(c *gin.Context) {
	id, ok := requireIDParam(c, "Invalid group ID format")
	if !ok {
		return
	}
	input, locationID, ok := ct.bindInput(c)
	if !ok {
		return
	}

	taken, err := ct.nameTaken(input.Name, id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		utils.RespondWithError(c, http.StatusConflict, "A group with this name already exists")
		return
	}

	res := ct.DB.Model(&models.Group{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        input.Name,
		"schedule":    input.Schedule,
		"day_of_week": input.DayOfWeek,
		"location_id": locationID,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			utils.RespondWithValidationErrors(c, map[string]string{"location_id": "unknown location"})
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update group")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Group not found")
		return
	}

	var group models.Group
	if err := ct.DB.First(&group, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// Delete removes a group. A group still referenced by client associations
// fails with a referential error; nothing cascades. The reference check
// runs before the delete because sqlite does not reliably translate a
// delete-path FK violation into gorm.ErrForeignKeyViolated.
func (ct *GroupController) Delete(c *gin.Context) {
	id, ok := requireIDParam(c, "Invalid group ID format")
	if !ok {
		return
	}

	var refs int64
	if err := ct.DB.Model(&models.ClientGroup{}).Where("group_id = ?", id).Count(&refs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if refs > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Group is referenced by clients")
		return
	}

	res := ct.DB.Delete(&models.Group{}, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			utils.RespondWithError(c, http.StatusConflict, "Group is referenced by clients")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete group")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Group not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ct *GroupController) bindInput(c *gin.Context) (GroupInput, uuid.UUID, bool) {
	var input GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return input, uuid.Nil, false
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		utils.RespondWithValidationErrors(c, map[string]string{"name": "must not be empty"})
		return input, uuid.Nil, false
	}
	locationID, err := uuid.Parse(input.LocationID)
	if err != nil {
		utils.RespondWithValidationErrors(c, map[string]string{"location_id": "must be a valid id"})
		return input, uuid.Nil, false
	}
	return input, locationID, true
}

func (ct *GroupController) nameTaken(name string, excludeID uuid.UUID) (bool, error) {
	query := ct.DB.Model(&models.Group{}).Where("lower(name) = lower(?)", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
