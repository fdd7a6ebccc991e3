package builder

// Option configures a single Column, Source or Condition call.
type Option func(*options)

type options struct {
	alias string
}

func newOptions(opts []Option) options {
	o := options{alias: DefaultAlias}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Alias sets the table alias for one call. A blank name drops the alias.
func Alias(name string) Option {
	return func(o *options) {
		o.alias = name
	}
}

// NoAlias renders the fragment without any alias.
func NoAlias() Option {
	return Alias("")
}
