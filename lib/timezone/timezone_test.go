package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthOf(t *testing.T) {
	cases := []struct {
		now         time.Time
		expectMonth int
		expectYear  int
	}{
		{
			now:         time.Date(2020, time.May, 15, 12, 0, 0, 0, time.UTC),
			expectMonth: 5,
			expectYear:  2020,
		},
		{
			// 19:00 UTC on the last day of the month is already the next day in IST
			now:         time.Date(2020, time.May, 31, 19, 0, 0, 0, time.UTC),
			expectMonth: 6,
			expectYear:  2020,
		},
		{
			now:         time.Date(2020, time.December, 31, 18, 29, 0, 0, time.UTC),
			expectMonth: 12,
			expectYear:  2020,
		},
		{
			now:         time.Date(2020, time.December, 31, 18, 30, 0, 0, time.UTC),
			expectMonth: 1,
			expectYear:  2021,
		},
	}

	for _, test := range cases {
		month, year := MonthOf(test.now)
		require.Equal(t, test.expectMonth, month)
		require.Equal(t, test.expectYear, year)
	}
}

func TestNow(t *testing.T) {
	name, offset := Now().Zone()
	require.Equal(t, "IST", name)
	require.Equal(t, 19800, offset)
}
