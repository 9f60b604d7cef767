package backend

import "errors"

var (
	ErrNoSuchUser     = errors.New("no such user")
	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrLoginBlocked   = errors.New("too many login attempts")
)
