package validator

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/models"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-application-status", validateApplicationStatus)
	// rejects whitespace-only strings, which 'required' lets through
	mustRegister("notblank", validateNotBlank)
	// bcrypt counts bytes; 'max' counts runes
	mustRegister("bcrypt-len", validateBcryptLength)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	_, err := models.ParseRole(value)
	return err == nil
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := models.ParseApplicationStatus(value)
	return err == nil
}

func validateBcryptLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= auth.MaxPasswordBytes
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
