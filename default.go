package loghub

import (
	"errors"
	"io"
	"sync/atomic"
)

// The process hub is an explicit convenience for ambient call sites: nothing
// exists until Init, and Shutdown tears it down again.
var global atomic.Pointer[Hub]

// Init installs h as the process hub. It fails if one is already installed.
func Init(h *Hub) error {
	if h == nil {
		return ErrNilHub
	}
	if !global.CompareAndSwap(nil, h) {
		return ErrAlreadyInitialized
	}
	return nil
}

// Current returns the process hub, if any.
func Current() (*Hub, bool) {
	h := global.Load()
	return h, h != nil
}

// L returns the process hub; panic if unset to surface misconfig early.
func L() *Hub {
	h := global.Load()
	if h == nil {
		panic("loghub: process hub not initialized. Build one and call loghub.Init(...)")
	}
	return h
}

// Shutdown uninstalls the process hub, detaches its sinks and closes every
// sink that implements io.Closer. Calling it without a hub is a no-op.
func Shutdown() error {
	h := global.Swap(nil)
	if h == nil {
		return nil
	}
	var errs []error
	for _, s := range h.DetachAll() {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
