package deck

import (
	"context"
	"fmt"
)

// SourceFunc produces a value from one backing source.
type SourceFunc[T any] func(ctx context.Context) (T, error)

// NamedSource pairs a source with a label for run-result reporting.
type NamedSource[T any] struct {
	Name  string
	Fetch SourceFunc[T]
}

// firstAvailable tries sources in order and returns the first successful
// result together with the name of the source that produced it. Each failure
// is collected so callers can surface partial degradation without failing the
// run. An error is returned only when every source fails.
func firstAvailable[T any](ctx context.Context, sources []NamedSource[T]) (T, string, []string, error) {
	var zero T
	var failures []string
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return zero, "", failures, err
		}
		v, err := src.Fetch(ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}
		return v, src.Name, failures, nil
	}
	return zero, "", failures, fmt.Errorf("all sources failed (%d tried)", len(sources))
}
