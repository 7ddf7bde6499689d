package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()

	resolver := compound.NewDefaultResolver()
	_ = v.RegisterValidation("compound", func(fl validator.FieldLevel) bool {
		return resolver.Known(compound.Compound(fl.Field().String()))
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return err
	}
	return validateRooms(cfg.Simulation.Rooms)
}

// validateRooms checks the cross-field rules struct tags cannot express
func validateRooms(rooms []RoomConfig) error {
	roomNames := make(map[string]bool)
	ids := make(map[string]string)
	agents := make(map[string]bool)

	claim := func(room, id string) error {
		if owner, taken := ids[id]; taken {
			return fmt.Errorf("structure id %q used in rooms %s and %s", id, owner, room)
		}
		ids[id] = room
		return nil
	}

	for _, room := range rooms {
		if roomNames[room.Name] {
			return fmt.Errorf("duplicate room %q", room.Name)
		}
		roomNames[room.Name] = true

		if err := claim(room.Name, room.StorageID); err != nil {
			return err
		}
		if room.Facility != nil {
			if err := claim(room.Name, room.Facility.ID); err != nil {
				return err
			}
		}
		for _, s := range room.Structures {
			if err := claim(room.Name, s.ID); err != nil {
				return err
			}
		}
		for _, a := range room.Agents {
			if agents[a.Name] {
				return fmt.Errorf("duplicate agent %q", a.Name)
			}
			agents[a.Name] = true
		}
		for _, r := range room.DrainRules {
			for _, id := range []string{r.SourceID, r.TargetID} {
				if ids[id] != room.Name {
					return fmt.Errorf("drain rule in room %s references unknown structure %q", room.Name, id)
				}
			}
		}
	}
	return nil
}
