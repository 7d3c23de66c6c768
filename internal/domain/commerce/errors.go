package commerce

import "errors"

var (
	// ErrPlatformUnavailable indicates the commerce platform could not be reached.
	ErrPlatformUnavailable = errors.New("commerce platform unavailable")
	// ErrPlatformRequestFailed indicates the platform rejected a request.
	ErrPlatformRequestFailed = errors.New("commerce platform request failed")
	// ErrStoreNotFound indicates no store record exists to read or update.
	ErrStoreNotFound = errors.New("store not found")
	// ErrChannelNotFound indicates the referenced sales channel does not exist.
	ErrChannelNotFound = errors.New("sales channel not found")
)
