package appointment

import (
	"errors"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/metrics"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

func notFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

// countRejection records capacity refusals so overbooking pressure is visible.
func countRejection(m *metrics.Metrics, err error) {
	if be, ok := httperr.AsBusiness(err); ok {
		switch be.Code {
		case "slot_full", "slot_blocked", "closed_day":
			m.Rejected(be.Code)
		}
	}
}

// canActOn allows admins everywhere and clients on their own bookings.
func canActOn(ap *models.Appointment, actorID, actorRole string) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return actorID != "" && !ap.IsGuest() && ap.UserID == actorID
}
