package models

// LoadResult is the view-ready record handed to the renderer for one load cycle.
// Error true implies Counter is 0.
type LoadResult struct {
	Error   bool  `json:"error"`
	Counter int64 `json:"counter"`
}

// Outcome is the result of a load cycle before it is flattened for the renderer.
// It is either Success or Failure.
type Outcome interface {
	Result() LoadResult
	isOutcome()
}

// Success carries the counter decoded from a successful response
type Success struct {
	Counter int64
}

// Result returns {error: false, counter: s.Counter}.
func (s Success) Result() LoadResult {
	return LoadResult{Error: false, Counter: s.Counter}
}

func (Success) isOutcome() {}

// Failure marks a load cycle whose response was not successful
type Failure struct{}

// Result returns {error: true, counter: 0}.
func (Failure) Result() LoadResult {
	return LoadResult{Error: true, Counter: 0}
}

func (Failure) isOutcome() {}
