package tracker

import "errors"

var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNoRewards         = errors.New("add at least one reward with XP > 0")
	ErrNoAttributes      = errors.New("create at least one attribute first")
	ErrUnknownAttribute  = errors.New("attribute not found")
	ErrInvalidActionType = errors.New("action type must be daily or once")
	ErrActionNotFound    = errors.New("action not found")
	ErrActionInactive    = errors.New("action is deleted")
	ErrActionActive      = errors.New("action is not deleted")
	ErrAmbiguousRef      = errors.New("reference matches more than one item")
	ErrNilState          = errors.New("state cannot be nil")

	errNoMatch = errors.New("no match")
)
