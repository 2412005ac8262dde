package credits

import "errors"

// ErrInsufficientCredits indicates the user's balance cannot cover the debit.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrUserNotFound indicates no balance row exists for the user.
var ErrUserNotFound = errors.New("user not found")
