package services

import (
	"strings"

	"github.com/mroshb/dice_game/internal/security"
	"github.com/mroshb/dice_game/pkg/errors"
)

// requireIdentifier trims raw and rejects it unless it is a well-formed id.
// Over-long input is an error, never a shortened id.
func requireIdentifier(field, raw string) (string, error) {
	id, ok := security.NormalizeIdentifier(raw)
	if id == "" {
		return "", errors.New(errors.ErrCodeValidation, field+" is required")
	}
	if !ok {
		return "", errors.New(errors.ErrCodeValidation, field+" is invalid")
	}
	return id, nil
}

// optionalIdentifier is requireIdentifier for fields that may be left empty.
func optionalIdentifier(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return requireIdentifier(field, raw)
}
