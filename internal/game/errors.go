// internal/game/errors.go
package game

import "errors"

var (
	// ErrRoomNotFound is returned when a named join targets a room that
	// does not exist.
	ErrRoomNotFound = errors.New("room does not exist")

	// ErrRoomFull is returned when the targeted room is at capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrNameTooShort is returned when a created room's name is under the
	// minimum length.
	ErrNameTooShort = errors.New("room name too short")

	// ErrNameTaken is returned when a created room's name is already in use.
	ErrNameTaken = errors.New("room name already in use")
)
