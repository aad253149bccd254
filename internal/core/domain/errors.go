package domain

import "errors"

// Authentication errors.
var (
	ErrEmptyCredentials   = errors.New("password cannot be empty")
	ErrInvalidCredentials = errors.New("cannot authenticate user")
)

// Workflow errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipientNotFound  = errors.New("message recipient not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidMessageID   = errors.New("invalid message identifier")
	ErrInvalidStatus      = errors.New("invalid message status")
	ErrCannotSaveMessage  = errors.New("error while saving message")
	ErrCannotModifyStatus = errors.New("error while modifying message status")
	ErrInternal           = errors.New("internal server error")
)
