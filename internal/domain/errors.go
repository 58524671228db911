package domain

import "errors"

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrAlreadyPaid           = errors.New("listing already paid")
	ErrAlreadyBooked         = errors.New("listing already booked")
	ErrDuplicateUser         = errors.New("user already exists")
	ErrDuplicateCategory     = errors.New("category already exists")
	ErrDuplicatePayment      = errors.New("payment already recorded for booking or listing")
	ErrPersistence           = errors.New("persistence error")
	ErrPartialReconciliation = errors.New("payment recorded but reconciliation incomplete")
	ErrGateway               = errors.New("payment gateway error")
	ErrGatewayTimeout        = errors.New("payment gateway timeout")
)
