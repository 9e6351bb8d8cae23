package queue

import "errors"

var (
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("queue closed")
	// ErrFull is returned by Enqueue when every slot is taken.
	ErrFull = errors.New("queue full")
)
