package services

import (
	"context"
	"errors"
	"time"

	"academia-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientAttributes carries the editable client fields for a create or full
// update. DNI and phone are expected already normalized to digits.
type ClientAttributes struct {
	Name            string
	Surname         string
	Dni             string
	Phone           string
	Address         string
	BirthDate       *time.Time
	PaymentDate     *time.Time
	MethodOfPayment models.MethodOfPayment
}

// SyncService writes a client row and its two association sets as a single
// atomic unit. Junction rows carry no state of their own, so each sync
// simply deletes the existing rows and inserts the desired set; the store's
// transaction isolation is the only concurrency control (last writer wins).
type SyncService struct {
	db *gorm.DB
}

func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{db: db}
}

// CreateClient inserts a client plus its associations in one transaction.
func (s *SyncService) CreateClient(ctx context.Context, attrs ClientAttributes, locationIDs, groupIDs []uuid.UUID) (*models.Client, error) {
	client := models.Client{
		ID:              uuid.New(),
		Name:            attrs.Name,
		Surname:         attrs.Surname,
		Dni:             attrs.Dni,
		Phone:           attrs.Phone,
		Address:         attrs.Address,
		BirthDate:       attrs.BirthDate,
		PaymentDate:     attrs.PaymentDate,
		MethodOfPayment: attrs.MethodOfPayment,
		IsActive:        true,
		PaymentStatus:   models.PaymentStatusRed,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateDNI
			}
			return err
		}
		return s.replaceAssociations(tx, client.ID, locationIDs, groupIDs)
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient replaces every editable field and both association sets in
// one transaction. It does not touch is_active or last_payment; those change
// through partial updates only.
func (s *SyncService) UpdateClient(ctx context.Context, id uuid.UUID, attrs ClientAttributes, locationIDs, groupIDs []uuid.UUID) (*models.Client, error) {
	var client models.Client

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Client{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":              attrs.Name,
			"surname":           attrs.Surname,
			"dni":               attrs.Dni,
			"phone":             attrs.Phone,
			"address":           attrs.Address,
			"birth_date":        attrs.BirthDate,
			"payment_date":      attrs.PaymentDate,
			"method_of_payment": attrs.MethodOfPayment,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return ErrDuplicateDNI
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClientNotFound
		}
		if err := s.replaceAssociations(tx, id, locationIDs, groupIDs); err != nil {
			return err
		}
		return tx.First(&client, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// replaceAssociations makes the stored junction rows exactly equal the
// desired sets: delete everything for the client, then bulk-insert the
// deduplicated ids. Must run inside the caller's transaction.
func (s *SyncService) replaceAssociations(tx *gorm.DB, clientID uuid.UUID, locationIDs, groupIDs []uuid.UUID) error {
	if err := tx.Where("client_id = ?", clientID).Delete(&models.ClientLocation{}).Error; err != nil {
		return err
	}
	if ids := dedupe(locationIDs); len(ids) > 0 {
		rows := make([]models.ClientLocation, 0, len(ids))
		for _, lid := range ids {
			rows = append(rows, models.ClientLocation{ClientID: clientID, LocationID: lid})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return &ReferentialError{Set: "location_ids"}
			}
			return err
		}
	}

	if err := tx.Where("client_id = ?", clientID).Delete(&models.ClientGroup{}).Error; err != nil {
		return err
	}
	if ids := dedupe(groupIDs); len(ids) > 0 {
		rows := make([]models.ClientGroup, 0, len(ids))
		for _, gid := range ids {
			rows = append(rows, models.ClientGroup{ClientID: clientID, GroupID: gid})
		}
		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return &ReferentialError{Set: "group_ids"}
			}
			return err
		}
	}
	return nil
}

// dedupe treats the input as a set; order of the result is not significant.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
