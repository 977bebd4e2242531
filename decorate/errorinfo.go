package decorate

import (
	"errors"
	"fmt"

	"github.com/trickstertwo/loghub"
)

// maxChain bounds the unwrap walk so a cyclic Unwrap cannot hang a write.
const maxChain = 32

// ErrorInfo converts the entry's error into a portable *loghub.ErrorInfo:
// dynamic type, message, the messages of every wrapped error (depth first,
// errors.Join branches included) and the handled flag.
func ErrorInfo() loghub.Decorator {
	return loghub.ErrorAware(loghub.ErrorDecoratorFunc(func(_ *loghub.Entry, err error, handled bool) (any, error) {
		return &loghub.ErrorInfo{
			Type:    fmt.Sprintf("%T", err),
			Message: err.Error(),
			Chain:   unwrapChain(err),
			Handled: handled,
		}, nil
	}))
}

func unwrapChain(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		if len(chain) >= maxChain {
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if inner == nil {
					continue
				}
				chain = append(chain, inner.Error())
				walk(inner)
			}
		default:
			if inner := errors.Unwrap(e); inner != nil {
				chain = append(chain, inner.Error())
				walk(inner)
			}
		}
	}
	walk(err)
	return chain
}
