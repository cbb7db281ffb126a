package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateUser is returned when registering a username that is taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUserNotFound is returned by backends when no user has the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrStorageUnavailable marks a relational store that could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageIOError reports a failed read or write of a backing file.
type StorageIOError struct {
	// Op is "read" or "write".
	Op string
	// Path is the file involved.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageIOError) Unwrap() error {
	return e.Err
}
