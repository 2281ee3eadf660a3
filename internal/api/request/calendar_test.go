package request

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
)

func day(s string) time.Time {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseCalendarRange(t *testing.T) {
	now := time.Date(2024, time.February, 17, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name                    string
		date, month, start, end string
		wantStart, wantEnd      string
		wantErr                 bool
		wantInvalidRange        bool
	}{
		{name: "single day", date: "2024-03-15", wantStart: "2024-03-15", wantEnd: "2024-03-15"},
		{name: "month", month: "2024-03", wantStart: "2024-03-01", wantEnd: "2024-03-31"},
		{name: "leap february", month: "2024-02", wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "explicit range", start: "2024-01-10", end: "2024-06-30", wantStart: "2024-01-10", wantEnd: "2024-06-30"},
		{name: "same start and end", start: "2024-01-10", end: "2024-01-10", wantStart: "2024-01-10", wantEnd: "2024-01-10"},
		{name: "defaults to current month", wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "bad date", date: "15.03.2024", wantErr: true},
		{name: "bad month", month: "2024-13", wantErr: true},
		{name: "start after end", start: "2024-06-30", end: "2024-01-10", wantErr: true, wantInvalidRange: true},
		{name: "end missing", start: "2024-06-30", wantErr: true, wantInvalidRange: true},
		{name: "mixed forms", date: "2024-03-15", month: "2024-03", wantErr: true, wantInvalidRange: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseCalendarRange(tt.date, tt.month, tt.start, tt.end, now)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantInvalidRange, errors.Is(err, apperrors.ErrInvalidDateRange))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, day(tt.wantStart), start)
			assert.Equal(t, day(tt.wantEnd), end)
		})
	}
}

func TestParseSecIDs(t *testing.T) {
	t.Run("splits trims and upper-cases", func(t *testing.T) {
		ids, err := ParseSecIDs(" su26238rmfs4, ,RU000A105TJ2 ,")

		require.NoError(t, err)
		assert.Equal(t, []string{"SU26238RMFS4", "RU000A105TJ2"}, ids)
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, err := ParseSecIDs(" , ")

		assert.Error(t, err)
	})

	t.Run("too many is rejected", func(t *testing.T) {
		param := ""
		for i := 0; i <= MaxSecIDsPerRequest; i++ {
			param += "A,"
		}

		_, err := ParseSecIDs(param)

		assert.ErrorContains(t, err, "at most")
	})
}
