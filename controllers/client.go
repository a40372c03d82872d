package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"academia-backend/models"
	"academia-backend/services"
	"academia-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientInput defines the expected JSON structure for creating or fully
// updating a client. Dates travel as strings and are parsed during
// validation; association ids are treated as sets.
type ClientInput struct {
	Name            string   `json:"name"`
	Surname         string   `json:"surname"`
	Dni             string   `json:"dni"`
	Phone           string   `json:"phone"`
	BirthDate       string   `json:"birth_date"`
	PaymentDate     string   `json:"payment_date"`
	MethodOfPayment string   `json:"method_of_payment"`
	Address         string   `json:"address"`
	LocationIDs     []string `json:"location_ids"`
	GroupIDs        []string `json:"group_ids"`
}

// PatchClientInput covers the two supported partial updates: toggling the
// soft-delete flag or recording a payment.
type PatchClientInput struct {
	IsActive    *bool   `json:"is_active"`
	LastPayment *string `json:"last_payment"`
}

// NamedRef is an id/name pair of an associated row.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ClientView is a client with its associations resolved.
type ClientView struct {
	models.Client
	Locations   []NamedRef  `json:"locations"`
	Groups      []NamedRef  `json:"groups"`
	LocationIDs []uuid.UUID `json:"location_ids"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
}

type ClientController struct {
	DB   *gorm.DB
	Sync *services.SyncService
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{DB: db, Sync: services.NewSyncService(db)}
}

// Get handles both get-by-id (?id=) and the active/inactive list (?active=).
func (ct *ClientController) Get(c *gin.Context) {
	if rawID := c.Query("id"); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
			return
		}
		view, err := ct.clientView(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"client": view})
		return
	}

	activeParam := c.Query("active")
	if activeParam == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing query param: active")
		return
	}
	active, err := strconv.ParseBool(activeParam)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid query param: active")
		return
	}

	var clients []models.Client
	if err := ct.DB.Where("is_active = ?", active).
		Order("surname ASC, name ASC").
		Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	views, err := ct.attachAssociations(clients)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": views})
}

// Create validates the payload and delegates the multi-table write to the
// sync service. Nothing touches the store until validation passes.
func (ct *ClientController) Create(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	attrs, locationIDs, groupIDs, fields := validateClientInput(input, time.Now())
	if len(fields) > 0 {
		utils.RespondWithValidationErrors(c, fields)
		return
	}

	client, err := ct.Sync.CreateClient(c.Request.Context(), attrs, locationIDs, groupIDs)
	if err != nil {
		ct.respondSyncError(c, err)
		return
	}

	view, err := ct.clientView(client.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": view})
}

// Update replaces every editable field plus both association sets.
func (ct *ClientController) Update(c *gin.Context) {
	rawID := c.Query("id")
	if rawID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing query param: id")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	attrs, locationIDs, groupIDs, fields := validateClientInput(input, time.Now())
	if len(fields) > 0 {
		utils.RespondWithValidationErrors(c, fields)
		return
	}

	if _, err := ct.Sync.UpdateClient(c.Request.Context(), id, attrs, locationIDs, groupIDs); err != nil {
		ct.respondSyncError(c, err)
		return
	}

	view, err := ct.clientView(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": view})
}

// Patch toggles is_active (soft delete / restore) or records a payment.
// Clients are never hard-deleted.
func (ct *ClientController) Patch(c *gin.Context) {
	rawID := c.Query("id")
	if rawID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing query param: id")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var input PatchClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	switch {
	case input.IsActive != nil:
		res := ct.DB.Model(&models.Client{}).Where("id = ?", id).Update("is_active", *input.IsActive)
		if res.Error != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
			return
		}
		if res.RowsAffected == 0 {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"client": gin.H{"id": id, "is_active": *input.IsActive}})

	case input.LastPayment != nil:
		lastPayment, err := utils.ParseTimestamp(*input.LastPayment)
		if err != nil {
			utils.RespondWithValidationErrors(c, map[string]string{"last_payment": "must be a valid timestamp"})
			return
		}
		res := ct.DB.Model(&models.Client{}).Where("id = ?", id).Update("last_payment", lastPayment)
		if res.Error != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
			return
		}
		if res.RowsAffected == 0 {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"client": gin.H{"id": id, "last_payment": lastPayment}})

	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Body must set is_active or last_payment")
	}
}

func (ct *ClientController) respondSyncError(c *gin.Context, err error) {
	var refErr *services.ReferentialError
	switch {
	case errors.Is(err, services.ErrDuplicateDNI):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
	case errors.As(err, &refErr):
		utils.RespondWithValidationErrors(c, map[string]string{refErr.Set: "contains unknown ids"})
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to write client")
	}
}

// clientView loads one client and resolves its associations.
func (ct *ClientController) clientView(id uuid.UUID) (*ClientView, error) {
	var client models.Client
	if err := ct.DB.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	views, err := ct.attachAssociations([]models.Client{client})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// attachAssociations resolves location/group name lists for a batch of
// clients with two queries instead of two per client.
func (ct *ClientController) attachAssociations(clients []models.Client) ([]ClientView, error) {
	views := make([]ClientView, len(clients))
	index := make(map[uuid.UUID]*ClientView, len(clients))
	ids := make([]uuid.UUID, 0, len(clients))
	for i, client := range clients {
		views[i] = ClientView{
			Client:      client,
			Locations:   []NamedRef{},
			Groups:      []NamedRef{},
			LocationIDs: []uuid.UUID{},
			GroupIDs:    []uuid.UUID{},
		}
		index[client.ID] = &views[i]
		ids = append(ids, client.ID)
	}
	if len(ids) == 0 {
		return views, nil
	}

	type assocRow struct {
		ClientID uuid.UUID
		ID       uuid.UUID
		Name     string
	}

	var locationRows []assocRow
	err := ct.DB.Table("client_locations").
		Select("client_locations.client_id, locations.id, locations.name").
		Joins("JOIN locations ON locations.id = client_locations.location_id").
		Where("client_locations.client_id IN ?", ids).
		Scan(&locationRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range locationRows {
		view := index[row.ClientID]
		view.Locations = append(view.Locations, NamedRef{ID: row.ID, Name: row.Name})
		view.LocationIDs = append(view.LocationIDs, row.ID)
	}

	var groupRows []assocRow
	err = ct.DB.Table("client_groups").
		Select("client_groups.client_id, groups.id, groups.name").
		Joins("JOIN groups ON groups.id = client_groups.group_id").
		Where("client_groups.client_id IN ?", ids).
		Scan(&groupRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range groupRows {
		view := index[row.ClientID]
		view.Groups = append(view.Groups, NamedRef{ID: row.ID, Name: row.Name})
		view.GroupIDs = append(view.GroupIDs, row.ID)
	}

	return views, nil
}

// validateClientInput enforces the client field contract before any write is
// attempted and normalizes dni/phone to digits. Violations come back keyed
// by field.
func validateClientInput(input ClientInput, now time.Time) (services.ClientAttributes, []uuid.UUID, []uuid.UUID, map[string]string) {
	fields := map[string]string{}
	var attrs services.ClientAttributes

	attrs.Name = strings.TrimSpace(input.Name)
	if !utils.ValidPersonName(attrs.Name) {
		fields["name"] = "must be at least 2 letters (letters and spaces only)"
	}
	attrs.Surname = strings.TrimSpace(input.Surname)
	if !utils.ValidPersonName(attrs.Surname) {
		fields["surname"] = "must be at least 2 letters (letters and spaces only)"
	}

	attrs.Dni = utils.NormalizeDNI(input.Dni)
	if n := len(attrs.Dni); n < 7 || n > 8 {
		fields["dni"] = "must contain 7 or 8 digits"
	}

	attrs.Phone = utils.NormalizePhone(input.Phone)
	if n := len(attrs.Phone); n < 8 || n > 30 {
		fields["phone"] = "must contain between 8 and 30 digits"
	}

	attrs.Address = strings.TrimSpace(input.Address)
	if len([]rune(attrs.Address)) < 5 {
		fields["address"] = "must be at least 5 characters"
	}

	if birth, err := utils.ParseDate(input.BirthDate); err != nil {
		fields["birth_date"] = "must be a valid date"
	} else if age := utils.AgeAt(birth, now); age < 3 || age > 120 {
		fields["birth_date"] = "age must be between 3 and 120 years"
	} else {
		attrs.BirthDate = &birth
	}

	if payment, err := utils.ParseDate(input.PaymentDate); err != nil {
		fields["payment_date"] = "must be a valid date"
	} else {
		attrs.PaymentDate = &payment
	}

	attrs.MethodOfPayment = models.MethodOfPayment(input.MethodOfPayment)
	if attrs.MethodOfPayment != models.MethodCash && attrs.MethodOfPayment != models.MethodTransfer {
		fields["method_of_payment"] = "must be cash or transfer"
	}

	locationIDs, err := parseUUIDs(input.LocationIDs)
	if err != nil {
		fields["location_ids"] = "contains an invalid id"
	}
	groupIDs, err := parseUUIDs(input.GroupIDs)
	if err != nil {
		fields["group_ids"] = "contains an invalid id"
	}

	return attrs, locationIDs, groupIDs, fields
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
