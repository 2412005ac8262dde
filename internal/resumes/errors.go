package resumes

import "errors"

// ErrNotFound indicates the resume does not exist or belongs to another user.
var ErrNotFound = errors.New("resume not found")

// ErrInvalidInput indicates a rejected upload (bad type, empty file, too large).
var ErrInvalidInput = errors.New("invalid input")

// ErrTerminalStatus indicates an attempted transition out of completed or
// failed. Terminal states are immutable.
var ErrTerminalStatus = errors.New("resume already in terminal status")
