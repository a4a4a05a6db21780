// Copyright (c) HashiCorp, Inc.

package gitql

import "github.com/hashicorp/gitql/internal/types"

type options struct {
	withGlobals map[string]types.Value
}

// Option - how options are passed as args
type Option func(*options) error

func getDefaultOptions() options {
	return options{withGlobals: make(map[string]types.Value)}
}

func getOpts(opt ...Option) (options, error) {
	opts := getDefaultOptions()

	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// WithGlobal preseeds a Session's global variable table with name (which
// must start with `@`) bound to value, before any query runs against it.
func WithGlobal(name string, value types.Value) Option {
	return func(o *options) error {
		if name == "" || name[0] != '@' {
			return ErrInvalidParameter
		}
		o.withGlobals[name] = value
		return nil
	}
}
