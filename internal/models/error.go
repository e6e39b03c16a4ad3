package models

import "errors"

var (
	ErrValidation      = errors.New("required field is missing or invalid")
	ErrSubmitFailed    = errors.New("order could not be submitted")
	ErrGatewayLaunch   = errors.New("payment gateway could not be launched")
	ErrVerifyFailed    = errors.New("payment verification failed")
	ErrCancelRelease   = errors.New("order cancel release failed")
	ErrSessionNotFound = errors.New("no active payment session for order")
	ErrSessionConsumed = errors.New("payment session already resolved")
	ErrConflictData    = errors.New("data conflicts with existing data")
	ErrDataNotFound    = errors.New("data not found")
	ErrInvalidToken    = errors.New("invalid auth token")
)
