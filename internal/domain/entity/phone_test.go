package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"blank", "   ", ""},
		{"empty", "", ""},
		{"local mobile", "01712345678", "+8801712345678"},
		{"local mobile with separators", "017-1234 5678", "+8801712345678"},
		{"country code without plus", "8801712345678", "+8801712345678"},
		{"country code with plus", "+880 1712-345678", "+8801712345678"},
		{"other number", "(555) 123-4567", "+5551234567"},
		{"short 01 prefix", "0171234", "+0171234"},
		{"no digits", "abc", "+"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhoneNumber(tc.in))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane.doe@example.com", NormalizeEmail("  Jane.Doe@Example.COM "))
}

func TestDefaultDisplayName(t *testing.T) {
	custom := "JD"
	blank := "  "

	assert.Equal(t, "JD", DefaultDisplayName(&custom, "Jane", "Doe"))
	assert.Equal(t, "Jane Doe", DefaultDisplayName(nil, "Jane", "Doe"))
	assert.Equal(t, "Jane Doe", DefaultDisplayName(&blank, "Jane", "Doe"))

	u := &User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.FullName())
}
