package ldk

import "errors"

// ErrMissingCommand is returned when a compound does not carry the command
// asked for.
var ErrMissingCommand = errors.New("missing command")

// ErrFriendNotFound is returned when a functional unit looks up a peer that
// the network does not know, or that has another type.
var ErrFriendNotFound = errors.New("friend not found")
