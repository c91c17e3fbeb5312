package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameValidator(t *testing.T) {
	cases := []struct {
		name   string
		first  string
		last   string
		reason string
	}{
		{"plain names", "Jane", "Doe", ""},
		{"hyphen apostrophe space", "Mary-Jane", "O'Neil Smith", ""},
		{"two characters", "Al", "Li", ""},
		{"fifty characters", strings.Repeat("a", 50), "Doe", ""},
		{"blank first", "   ", "Doe", MsgInvalidFirstName},
		{"empty first", "", "Doe", MsgInvalidFirstName},
		{"one character first", "J", "Doe", MsgInvalidFirstName},
		{"fifty one characters first", strings.Repeat("a", 51), "Doe", MsgInvalidFirstName},
		{"digit in first", "J4ne", "Doe", MsgInvalidFirstName},
		{"accented first", "Zoë", "Doe", MsgInvalidFirstName},
		{"tab in first", "Jane\tAnn", "Doe", MsgInvalidFirstName},
		{"bad last", "Jane", "D0e", MsgInvalidLastName},
		{"one character last", "Jane", "D", MsgInvalidLastName},
		{"both bad reports first", "J", "D", MsgInvalidFirstName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := NameValidator{}.Validate(context.Background(), Candidate{FirstName: tc.first, LastName: tc.last})
			require.NoError(t, err)
			assert.Equal(t, tc.reason == "", out.Valid)
			assert.Equal(t, tc.reason, out.Reason)
		})
	}
}
