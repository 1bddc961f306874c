package store

import "errors"

var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrBusy        = errors.New("a generation is already in progress")
	ErrNoSelection = errors.New("no image selected")
)
