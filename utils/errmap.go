package utils

import (
	"regexp"
	"strings"
)

type errorRule struct {
	match   string
	field   string
	message string
}

// backendErrorRules is the one table every form maps API error text with.
// Order matters: within a clause later rules overwrite earlier ones for the
// same field.
var backendErrorRules = []errorRule{
	{"data/genreId must be >= 0", "genreId", "Genre ID must be non-negative"},
	{"No genre with id", "genreId", "Genre ID must reference an existing genre"},
	{"data/platformIds must be array", "platformIds", "Platform IDs must be comma-separated"},
	{"data/price must be integer", "price", "Price must be a number"},
	{"data/price must be >= 0", "price", "Price must be non-negative"},
	{"Duplicate petition", "title", "Game already exists"},
	{"No platform with id", "platformIds", "Platform ID must reference an existing platform"},
	{"data/platformIds must NOT have fewer than 1 items", "platformIds", "Game must have at least one Platform"},
	{"email must match format", "email", "Please enter a valid email address"},
	{"Email already in use", "email", "Email already in use"},
	{"password must match format", "password", "The password must be at least 6 characters long"},
	{"Incorrect currentPassword", "currentPassword", "Current password is incorrect"},
}

var clauseSeparators = regexp.MustCompile(`[,;]+`)

// MapBackendError splits an API error message into clauses and maps every
// clause containing a known substring to its form field. An empty map means
// nothing was recognised and the caller should show a generic notification.
func MapBackendError(message string) map[string]string {
	fields := make(map[string]string)
	for _, clause := range clauseSeparators.Split(message, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		for _, rule := range backendErrorRules {
			if strings.Contains(clause, rule.match) {
				fields[rule.field] = rule.message
			}
		}
	}
	return fields
}
