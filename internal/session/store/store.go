// Package store holds the snapshot backends. Each writes the finalized
// roster and partition under the two fixed keys in a single all-or-nothing
// operation and reads them back with Load.
package store

import (
	"teamsort/internal/session/models"
)

type Option func(*options)

type options struct {
	keyPrefix string
}

// WithKeyPrefix namespaces both keys, e.g. "teamsort:" gives
// "teamsort:finalized_groups".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) groupsKey() string { return o.keyPrefix + models.KeyGroups }
func (o options) rosterKey() string { return o.keyPrefix + models.KeyRoster }
