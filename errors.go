package loghub

import "errors"

var (
	ErrInvalidCapacity    = errors.New("loghub: history capacity must be positive")
	ErrUnknownLevel       = errors.New("loghub: unknown level")
	ErrNilHub             = errors.New("loghub: nil hub")
	ErrAlreadyInitialized = errors.New("loghub: process hub already initialized")
	ErrSerializerPanic    = errors.New("loghub: serializer panicked")
	ErrDecoratorPanic     = errors.New("loghub: decorator panicked")
)
