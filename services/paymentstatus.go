package services

import (
	"time"

	"academia-backend/models"
	"academia-backend/utils"
)

// ClassifyPayment derives the payment light for a client from its scheduled
// payment date and the timestamp of its most recent recorded payment. It is
// pure: same inputs, same answer, no side effects. All comparisons happen in
// UTC.
//
// A payment recorded in now's calendar month means green. Otherwise, if now
// falls in the calendar month immediately after the scheduled one (December
// rolls over to January of the next year) and the scheduled day-of-month is
// between 1 and 10, the client gets yellow. Everything else is red. The day
// check applies to the scheduled date, never to now.
func ClassifyPayment(scheduled time.Time, lastPayment *time.Time, now time.Time) models.PaymentStatus {
	now = now.UTC()

	if lastPayment != nil && utils.SameMonth(*lastPayment, now) {
		return models.PaymentStatusGreen
	}

	scheduled = scheduled.UTC()
	dueYear, dueMonth := utils.NextCalendarMonth(scheduled)
	if now.Year() == dueYear && now.Month() == dueMonth &&
		scheduled.Day() >= 1 && scheduled.Day() <= 10 {
		return models.PaymentStatusYellow
	}

	return models.PaymentStatusRed
}
