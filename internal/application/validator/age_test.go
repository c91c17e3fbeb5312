package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const msgUnderage = "Policy violation. Users must be at least 13 years old."

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAgeValidator(t *testing.T) {
	v := NewAgeValidator(13)
	v.Now = fixedClock(2025, time.June, 15)

	cases := []struct {
		name  string
		dob   *time.Time
		valid bool
	}{
		{"no date of birth", nil, true},
		{"exactly thirteen today", date(2012, time.June, 15), true},
		{"thirteen tomorrow", date(2012, time.June, 16), false},
		{"thirteen next month", date(2012, time.July, 1), false},
		{"thirteen last month", date(2012, time.May, 31), true},
		{"twelve", date(2013, time.January, 1), false},
		{"adult", date(1990, time.December, 31), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := v.Validate(context.Background(), Candidate{DateOfBirth: tc.dob})
			require.NoError(t, err)
			assert.Equal(t, tc.valid, out.Valid)
			if !tc.valid {
				assert.Equal(t, msgUnderage, out.Reason)
			}
		})
	}
}

func TestAgeLeapDayBirthday(t *testing.T) {
	dob := time.Date(2012, time.February, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, Age(dob, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 13, Age(dob, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAgeValidatorZeroValueUsesDefaults(t *testing.T) {
	out, err := AgeValidator{}.Validate(context.Background(), Candidate{DateOfBirth: date(time.Now().Year()-5, time.January, 1)})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, msgUnderage, out.Reason)
}
