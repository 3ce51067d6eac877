package validator

import (
	"strings"
	"unicode/utf8"
)

const (
	minNameLen           = 2
	maxNameLen           = 100
	minSpecializationLen = 2
	maxSpecializationLen = 100
	maxDoctorIDLen       = 50
	minCapacity          = 1
	maxCapacity          = 100
)

func ValidatePersonName(name string) bool {
	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	return length >= minNameLen && length <= maxNameLen
}

func ValidateSpecialization(specialization string) bool {
	specialization = strings.TrimSpace(specialization)
	length := utf8.RuneCountInString(specialization)
	return length >= minSpecializationLen && length <= maxSpecializationLen
}

func ValidateDoctorID(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || len(id) <= maxDoctorIDLen
}

func ValidateDailyCapacity(capacity int) bool {
	return capacity >= minCapacity && capacity <= maxCapacity
}

func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '\'' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s)
}
