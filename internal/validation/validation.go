package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field limits shared by the event and vote endpoints
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxNameLength        = 100
	MaxAddressLength     = 500
	MaxEmailLength       = 320
	MaxTimeSlots         = 50
	MaxVenues            = 50
)

var validate = validator.New()

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateEmail checks the address format. Blank input is accepted
// because every email field is optional.
func ValidateEmail(email, fieldName string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if err := ValidateMaxLength(email, MaxEmailLength, fieldName); err != nil {
		return err
	}
	if err := validate.Var(email, "email"); err != nil {
		return errors.New(fieldName + " must have a valid format")
	}
	return nil
}

// ParseInstant parses an RFC 3339 timestamp and returns it in UTC
func ParseInstant(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New(fieldName + " must be an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

// EventValidation contiene validaciones específicas para eventos
type EventValidation struct{}

// ValidateTitle valida el título de un evento
func (v EventValidation) ValidateTitle(title string) error {
	if err := ValidateRequired(title, "title"); err != nil {
		return err
	}
	return ValidateMaxLength(title, MaxTitleLength, "title")
}

// ValidateDescription valida la descripción de un evento; es opcional
func (v EventValidation) ValidateDescription(description string) error {
	return ValidateMaxLength(description, MaxDescriptionLength, "description")
}

// ValidateOptionCounts bounds how many candidates one event can carry
func (v EventValidation) ValidateOptionCounts(timeSlots, venues int) error {
	if timeSlots > MaxTimeSlots {
		return errors.New("at most " + strconv.Itoa(MaxTimeSlots) + " time slots are allowed")
	}
	if venues > MaxVenues {
		return errors.New("at most " + strconv.Itoa(MaxVenues) + " venues are allowed")
	}
	return nil
}

// ValidateVenueName valida el nombre de un lugar
func (v EventValidation) ValidateVenueName(name string, index int) error {
	field := "venues[" + strconv.Itoa(index) + "].name"
	if err := ValidateRequired(name, field); err != nil {
		return err
	}
	return ValidateMaxLength(name, MaxTitleLength, field)
}

// ParticipantValidation contiene validaciones específicas para participantes
type ParticipantValidation struct{}

// ValidateName valida el nombre de un participante
func (v ParticipantValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "participant_name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, MaxNameLength, "participant_name")
}

// ValidateEmail valida el email opcional de un participante
func (v ParticipantValidation) ValidateEmail(email string) error {
	return ValidateEmail(email, "participant_email")
}
