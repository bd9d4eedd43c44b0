package services

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("not allowed")
	ErrOwnSession        = errors.New("you cannot book your own session")
	ErrSessionFull       = errors.New("this session has reached its maximum capacity")
	ErrAlreadyRequested  = errors.New("you already have an active request for this session")
	ErrInvalidTransition = errors.New("booking is not in a state that allows this action")
	ErrSessionNotEnded   = errors.New("cannot complete a booking before the session has taken place")
	ErrSelfThread        = errors.New("you cannot start a chat with yourself")
	ErrNotParticipant    = errors.New("you are not a participant of this thread")
	ErrEmptyMessage      = errors.New("message text cannot be empty")
)
