package model

import "errors"

var (
	ErrConfigUnavailable  = errors.New("configuration unavailable")
	ErrRegistryUnreadable = errors.New("input device registry unreadable")
	ErrStreamNotFound     = errors.New("no event stream for device")
	ErrStreamReadFailure  = errors.New("event stream read failed")
	ErrNotifierFailure    = errors.New("alert delivery failed")
	ErrBlockActionFailure = errors.New("device block failed")
)
