package tui

import "errors"

// ErrAborted signals that the user interrupted the prompt session.
var ErrAborted = errors.New("tui: aborted by user")
