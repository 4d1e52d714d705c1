package diagnostics

// Sink collects diagnostics for one analysis run.
// It is append-only and keeps insertion order.
type Sink struct {
	file   string
	errors []*DiagnosticError
}

func NewSink(file string) *Sink {
	return &Sink{file: file}
}

// Add appends diagnostics, stamping the sink's file on those without one.
func (s *Sink) Add(errs ...*DiagnosticError) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if err.File == "" {
			err.File = s.file
		}
		s.errors = append(s.errors, err)
	}
}

// Errors returns a copy of the collected diagnostics in insertion order.
func (s *Sink) Errors() []*DiagnosticError {
	out := make([]*DiagnosticError, len(s.errors))
	copy(out, s.errors)
	return out
}

func (s *Sink) Len() int { return len(s.errors) }

// ByCode returns the diagnostics with the given code, in insertion order.
func (s *Sink) ByCode(code ErrorCode) []*DiagnosticError {
	var out []*DiagnosticError
	for _, err := range s.errors {
		if err.Code == code {
			out = append(out, err)
		}
	}
	return out
}
