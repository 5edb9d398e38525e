package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapBackendError(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			"price and genre",
			"data/price must be >= 0, data/genreId must be >= 0",
			map[string]string{
				"price":   "Price must be non-negative",
				"genreId": "Genre ID must be non-negative",
			},
		},
		{
			"unknown text",
			"Internal Server Error",
			map[string]string{},
		},
		{"empty", "", map[string]string{}},
		{
			"semicolons and runs of separators",
			"Bad Request: No genre with id 99;; No platform with id 7",
			map[string]string{
				"genreId":     "Genre ID must reference an existing genre",
				"platformIds": "Platform ID must reference an existing platform",
			},
		},
		{
			"later clause overwrites same field",
			"data/price must be integer; data/price must be >= 0",
			map[string]string{"price": "Price must be non-negative"},
		},
		{
			"platform minimum",
			"data/platformIds must NOT have fewer than 1 items",
			map[string]string{"platformIds": "Game must have at least one Platform"},
		},
		{
			"duplicate title",
			"Forbidden: Duplicate petition",
			map[string]string{"title": "Game already exists"},
		},
		{
			"user form rules share the table",
			"Bad Request: data/email must match format \"email\", data/password must match format",
			map[string]string{
				"email":    "Please enter a valid email address",
				"password": "The password must be at least 6 characters long",
			},
		},
		{
			"email in use",
			"Forbidden: Email already in use",
			map[string]string{"email": "Email already in use"},
		},
		{
			"wrong current password",
			"Unauthorized: Incorrect currentPassword",
			map[string]string{"currentPassword": "Current password is incorrect"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MapBackendError(tc.input))
		})
	}
}
