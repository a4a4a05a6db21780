// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package gitsource

import "github.com/hashicorp/go-hclog"

// options configures a Source, following the functional-options idiom the
// rest of this module reuses from the teacher's own options.go.
type options struct {
	withLogger hclog.Logger
	withName   string
}

// Option configures a Source at Open time.
type Option func(*options) error

func getDefaultOptions() options {
	return options{withLogger: hclog.NewNullLogger()}
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

// WithLogger provides an hclog.Logger the Source reports ref/commit/diff
// resolution failures to. Library callers that don't want logging can omit
// this; a Null logger is used by default.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) error {
		o.withLogger = logger
		return nil
	}
}

// WithName sets the value the `repo` column reports for every row this
// Source produces. Defaults to the path Open was given.
func WithName(name string) Option {
	return func(o *options) error {
		o.withName = name
		return nil
	}
}
