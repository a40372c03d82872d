// services/reconciler.go
package services

import (
	"log"
	"time"

	"academia-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Reconciler re-derives the cached payment_status for every client on a
// schedule. Writes are conditional on the value actually changing, so a
// re-run with no underlying data change performs zero writes and the job is
// safe to run concurrently with live traffic.
type Reconciler struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, now: time.Now}
}

// ReconcileResult summarizes one batch run.
type ReconcileResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ReconcileAll scans every client with a scheduled payment date, classifies
// it against the current time and persists the status only when it differs
// from the stored value. A failure on one client is logged and counted; it
// never aborts the rest of the batch.
func (r *Reconciler) ReconcileAll() ReconcileResult {
	var result ReconcileResult

	var clients []models.Client
	if err := r.db.Where("payment_date IS NOT NULL").Find(&clients).Error; err != nil {
		log.Printf("reconciler: failed to fetch clients: %v", err)
		result.Failed++
		return result
	}

	now := r.now().UTC()
	for _, client := range clients {
		status := ClassifyPayment(*client.PaymentDate, client.LastPayment, now)
		if status == client.PaymentStatus {
			continue
		}
		err := r.db.Model(&models.Client{}).
			Where("id = ?", client.ID).
			Update("payment_status", status).Error
		if err != nil {
			log.Printf("reconciler: client %s: %v", client.ID, err)
			result.Failed++
			continue
		}
		result.Updated++
	}

	log.Printf("reconciler: run complete | updated: %d | failed: %d", result.Updated, result.Failed)
	return result
}

// StartScheduler runs one pass immediately, then on the given cron spec.
func (r *Reconciler) StartScheduler(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.ReconcileAll() }); err != nil {
		return err
	}

	r.ReconcileAll()

	c.Start()
	r.cron = c
	log.Println("Payment status reconciler started")
	return nil
}

// Stop halts the scheduler; an in-flight run finishes on its own.
func (r *Reconciler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
