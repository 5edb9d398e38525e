package utils

import (
	"errors"
	"testing"

	"gamehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	err := ValidateStruct(models.GameInput{
		Title:   "",
		GenreID: intPtr(1),
		Price:   intPtr(30000),
	})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Description is required", fields["description"])
	assert.Equal(t, "Max price is $250", fields["price"])
	assert.Contains(t, fields, "platformIds")
	assert.NotContains(t, fields, "genreId")
}

func TestFieldErrorsValidGame(t *testing.T) {
	err := ValidateStruct(models.GameInput{
		Title:       "Outer Wilds",
		Description: "Time loop",
		GenreID:     intPtr(0),
		Price:       intPtr(0),
		PlatformIDs: []int{1},
	})
	assert.NoError(t, err)
}

func TestFieldErrorsProfilePasswords(t *testing.T) {
	base := models.ProfileInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

	assert.NoError(t, ValidateStruct(base))

	short := base
	short.CurrentPassword = "secret1"
	short.Password = "abc"
	assert.Equal(t, "Password must be at least 6 characters", FieldErrors(ValidateStruct(short))["password"])

	same := base
	same.CurrentPassword = "secret1"
	same.Password = "secret1"
	assert.Equal(t, "New password must be different from current password", FieldErrors(ValidateStruct(same))["password"])

	noCurrent := base
	noCurrent.Password = "secret22"
	assert.Equal(t, "Current password is required", FieldErrors(ValidateStruct(noCurrent))["currentPassword"])

	badEmail := base
	badEmail.Email = "not-an-email"
	assert.Equal(t, "Please enter a valid email address", FieldErrors(ValidateStruct(badEmail))["email"])
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}
