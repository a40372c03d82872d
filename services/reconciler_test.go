package services

import (
	"testing"
	"time"

	"academia-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAllCorrectsStaleStatuses(t *testing.T) {
	db := setupTestDB(t)

	paid := date("2024-02-10")
	clients := []models.Client{
		{ID: uuid.New(), Name: "Ana", Surname: "Garcia", Dni: "30111222",
			PaymentDate: datePtr("2024-01-05"), LastPayment: &paid,
			IsActive: true, PaymentStatus: models.PaymentStatusRed}, // should be green
		{ID: uuid.New(), Name: "Bruno", Surname: "Lopez", Dni: "30111223",
			PaymentDate: datePtr("2024-01-05"),
			IsActive: true, PaymentStatus: models.PaymentStatusRed}, // should be yellow
		{ID: uuid.New(), Name: "Carla", Surname: "Paz", Dni: "30111224",
			PaymentDate: datePtr("2024-05-20"),
			IsActive: true, PaymentStatus: models.PaymentStatusRed}, // already red
		{ID: uuid.New(), Name: "Dario", Surname: "Ruiz", Dni: "30111225",
			IsActive: true, PaymentStatus: models.PaymentStatusGreen}, // no payment_date, skipped
	}
	require.NoError(t, db.Create(&clients).Error)

	r := NewReconciler(db)
	r.now = func() time.Time { return date("2024-02-08") }

	result := r.ReconcileAll()
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Failed)

	var stored []models.Client
	require.NoError(t, db.Order("surname ASC").Find(&stored).Error)
	byDni := map[string]models.PaymentStatus{}
	for _, c := range stored {
		byDni[c.Dni] = c.PaymentStatus
	}
	assert.Equal(t, models.PaymentStatusGreen, byDni["30111222"])
	assert.Equal(t, models.PaymentStatusYellow, byDni["30111223"])
	assert.Equal(t, models.PaymentStatusRed, byDni["30111224"])
	assert.Equal(t, models.PaymentStatusGreen, byDni["30111225"]) // untouched
}

func TestReconcileAllSecondRunWritesNothing(t *testing.T) {
	db := setupTestDB(t)

	clients := []models.Client{
		{ID: uuid.New(), Name: "Ana", Surname: "Garcia", Dni: "30111222",
			PaymentDate: datePtr("2024-01-05"),
			IsActive:    true, PaymentStatus: models.PaymentStatusRed},
		{ID: uuid.New(), Name: "Bruno", Surname: "Lopez", Dni: "30111223",
			PaymentDate: datePtr("2024-03-02"),
			IsActive:    true, PaymentStatus: models.PaymentStatusGreen},
	}
	require.NoError(t, db.Create(&clients).Error)

	r := NewReconciler(db)
	r.now = func() time.Time { return date("2024-02-08") }

	first := r.ReconcileAll()
	assert.Equal(t, 2, first.Updated)

	// Idempotent: nothing changed underneath, so nothing is written.
	second := r.ReconcileAll()
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 0, second.Failed)
}

func TestReconcileAllIncludesInactiveClients(t *testing.T) {
	db := setupTestDB(t)

	client := models.Client{ID: uuid.New(), Name: "Ana", Surname: "Garcia", Dni: "30111222",
		PaymentDate: datePtr("2024-01-05"),
		IsActive:    false, PaymentStatus: models.PaymentStatusGreen}
	require.NoError(t, db.Create(&client).Error)

	r := NewReconciler(db)
	r.now = func() time.Time { return date("2024-02-08") }

	result := r.ReconcileAll()
	assert.Equal(t, 1, result.Updated)

	var stored models.Client
	require.NoError(t, db.First(&stored, "id = ?", client.ID).Error)
	assert.Equal(t, models.PaymentStatusYellow, stored.PaymentStatus)
}
