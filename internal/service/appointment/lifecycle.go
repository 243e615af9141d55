package appointment

import (
	"github.com/jwalitptl/clinic-ops-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

// transitions is the closed table of legal status changes. Terminal states
// have no entries, so any transition out of them is rejected, including a
// repeat of the same status.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCanceled,
	},
}

func checkTransition(from, to model.AppointmentStatus) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperrors.InvalidTransition(string(from), string(to))
}
