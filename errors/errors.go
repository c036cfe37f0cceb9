package errors

import "fmt"

var (
	ErrUnauthorized        = fmt.Errorf("unauthorized")
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrNotFound            = fmt.Errorf("not found")
	ErrDuplicateConnection = fmt.Errorf("connection id already bound to another identity")
	ErrUpstreamFailure     = fmt.Errorf("upstream collaborator failure")
	ErrUserAlreadyExists   = fmt.Errorf("user already exists")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration     = fmt.Errorf("token generation failed")
	ErrValidation          = fmt.Errorf("validation failed")
	ErrSinkClosed          = fmt.Errorf("event sink closed")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrEmptyWords          = fmt.Errorf("no words have been found")
)
