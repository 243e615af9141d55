package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, time.UTC)
}

func TestIntervalValidate(t *testing.T) {
	tests := []struct {
		name    string
		iv      Interval
		wantErr bool
	}{
		{"valid", Interval{at(9, 0), at(9, 30)}, false},
		{"zero length", Interval{at(9, 0), at(9, 0)}, true},
		{"inverted", Interval{at(10, 0), at(9, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.iv.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{at(9, 0), at(9, 30)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{at(9, 0), at(9, 30)}, true},
		{"contained", Interval{at(9, 10), at(9, 20)}, true},
		{"straddles start", Interval{at(8, 45), at(9, 15)}, true},
		{"straddles end", Interval{at(9, 15), at(9, 45)}, true},
		{"touching after", Interval{at(9, 30), at(10, 0)}, false},
		{"touching before", Interval{at(8, 30), at(9, 0)}, false},
		{"disjoint", Interval{at(11, 0), at(11, 30)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestFindConflict(t *testing.T) {
	existing := []Interval{
		{at(9, 0), at(9, 30)},
		{at(9, 30), at(10, 0)},
	}

	t.Run("overlapping both", func(t *testing.T) {
		c := FindConflict(7, Interval{at(9, 15), at(9, 45)}, existing)
		assert.NotNil(t, c)
		assert.Equal(t, int64(7), c.EquipmentID)
		assert.Equal(t, existing[0], c.Existing)
	})

	t.Run("back to back is free", func(t *testing.T) {
		assert.Nil(t, FindConflict(7, Interval{at(10, 0), at(10, 30)}, existing))
	})

	t.Run("no existing bookings", func(t *testing.T) {
		assert.Nil(t, FindConflict(7, Interval{at(9, 0), at(9, 30)}, nil))
	})
}
