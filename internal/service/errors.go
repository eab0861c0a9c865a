package service

import "errors"

var (
	// ErrNoCurrentEvent is returned by cart mutations when no event is selected
	ErrNoCurrentEvent = errors.New("no current event selected")
	// ErrInvalidDish is returned when required dish fields are missing or invalid
	ErrInvalidDish = errors.New("invalid dish")
	// ErrEventIDRequired is returned when a cart operation names no event
	ErrEventIDRequired = errors.New("event id is required")

	// Lookups by id or name that match nothing.
	ErrEventNotFound   = errors.New("event not found")
	ErrDishNotFound    = errors.New("dish not found")
	ErrProductNotFound = errors.New("product not found")

	// Input rejected by validation; the wrapped message names the field.
	ErrInvalidEvent    = errors.New("invalid event")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidLookup   = errors.New("invalid lookup value")

	// ErrUnknownLookup is returned for a lookup list or widget group name
	// that does not exist
	ErrUnknownLookup = errors.New("unknown lookup list")
)
