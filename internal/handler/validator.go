package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("pet_type", validatePetType)
	_ = v.RegisterValidation("rarity", validateRarity)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "pet_type":
			errs[field] = "Unknown pet type"
		case "rarity":
			errs[field] = "Unknown rarity"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "oneof":
			errs[field] = "Invalid value"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ValidPetTypes defines the pets a profile can switch between
var ValidPetTypes = map[string]bool{
	"cat":     true,
	"dog":     true,
	"hamster": true,
	"parrot":  true,
	"axolotl": true,
}

// ValidRarities defines the rarity tiers accepted in catch requests
var ValidRarities = map[string]bool{
	"common":    true,
	"rare":      true,
	"epic":      true,
	"legendary": true,
}

func validatePetType(fl validator.FieldLevel) bool {
	petType := fl.Field().String()
	// Empty is handled by the 'required' tag when the field is mandatory
	if petType == "" {
		return true
	}
	return ValidPetTypes[strings.ToLower(petType)]
}

func validateRarity(fl validator.FieldLevel) bool {
	rarity := fl.Field().String()
	if rarity == "" {
		return true
	}
	return ValidRarities[strings.ToLower(rarity)]
}
