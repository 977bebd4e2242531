// Package decorate provides ready-made hub decorators: call site, error
// details, process identity and constant tags.
package decorate

import "github.com/trickstertwo/loghub"

// Tags is a constant set of fields added to every entry.
type Tags []loghub.Field

func (t Tags) LogFields() []loghub.Field { return t }

// Static attaches a copy of fields to every entry.
func Static(fields ...loghub.Field) loghub.Decorator {
	tags := make(Tags, len(fields))
	copy(tags, fields)
	return loghub.DecoratorFunc(func(*loghub.Entry) (any, error) {
		if len(tags) == 0 {
			return nil, nil
		}
		return tags, nil
	})
}
