package params

// StoreBuilderOption is a functional option for configuring a Store.
type StoreBuilderOption func(*store)

// WithInitial seeds the store with the given parameters. Every field is validated as if set
// through its setter.
//
// Parameters:
//   - p: the initial parameters
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithInitial(p Parameters) StoreBuilderOption {
	return func(s *store) {
		s.initial = &p
	}
}

// WithOnChange registers the callback invoked synchronously after every accepted set.
//
// Parameters:
//   - callback: function receiving the new snapshot and the field that changed
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithOnChange(callback func(p Parameters, field Field)) StoreBuilderOption {
	return func(s *store) {
		s.onChange = callback
	}
}

// WithMaxTextLength bounds the display and company names in runes.
// Values <= 0 select DefaultMaxTextLength.
//
// Parameters:
//   - n: maximum rune count
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithMaxTextLength(n int) StoreBuilderOption {
	return func(s *store) {
		if n <= 0 {
			n = DefaultMaxTextLength
		}
		s.maxTextLength = n
	}
}

// WithFilter replaces the default denylist filter.
//
// Parameters:
//   - f: the profanity filter applied to text fields
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithFilter(f *Filter) StoreBuilderOption {
	return func(s *store) {
		s.filter = f
	}
}
