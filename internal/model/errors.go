package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrNameTaken      = errors.New("username already taken")
	ErrInvalidName    = errors.New("username is empty or whitespace")
	ErrPlayerNotFound = errors.New("player not found")

	// Invitation errors
	ErrTargetNotFound     = errors.New("target player not found")
	ErrNoSuchInvitation   = errors.New("no matching invitation")
	ErrInvalidTimeControl = errors.New("invalid time control settings")

	// Room errors
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomNotJoinable   = errors.New("room is not joinable")
	ErrCannotJoinOwnRoom = errors.New("cannot join your own room")
	ErrAlreadyInRoom     = errors.New("player is already in a room")
	ErrGameNotInProgress = errors.New("game is not in progress")

	// Move errors
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("position is out of bounds")
	ErrOccupiedCell = errors.New("position is already occupied")
	ErrInvalidColor = errors.New("invalid color")

	// Clock errors
	ErrClockNotExpired = errors.New("clock has not expired")
)
