package core

import "errors"

var (
	ErrThingNotFound   = errors.New("thing not found")
	ErrForbiddenAccess = errors.New("user is not the owner of this thing")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("identity is missing or has no uid")
)
