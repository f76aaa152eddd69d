// Package sequence hands out formatted, gap-free record numbers such as
// "EMP0042" from sequences stored in the database.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/hr-extensions/hr"
)

// Generator formats numbers reserved from a SequenceStore.
type Generator struct {
	store hr.SequenceStore
}

// NewGenerator returns a Generator reserving numbers from store.
func NewGenerator(store hr.SequenceStore) *Generator {
	return &Generator{store: store}
}

// Next reserves and formats the next number of the sequence.
func (g *Generator) Next(ctx context.Context, code string) (string, error) {
	seq, n, err := g.store.ReserveNumber(ctx, code)
	if err != nil {
		return "", fmt.Errorf("sequence %s: %w", code, err)
	}
	return Format(seq, n), nil
}

// NextOr is Next, returning fallback when no sequence exists for code.
func (g *Generator) NextOr(ctx context.Context, code, fallback string) (string, error) {
	s, err := g.Next(ctx, code)
	if errors.Is(err, hr.ErrSequenceNotFound) {
		return fallback, nil
	}
	return s, err
}

// Format renders n with the sequence's prefix and zero padding.
func Format(seq hr.Sequence, n int64) string {
	return fmt.Sprintf("%s%0*d", seq.Prefix, seq.Padding, n)
}
