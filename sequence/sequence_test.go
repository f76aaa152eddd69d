package sequence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/hr/store"
	"github.com/warp/hr-extensions/sequence"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "EMP0007", sequence.Format(hr.Sequence{Prefix: "EMP", Padding: 4}, 7))
	assert.Equal(t, "EMP12345", sequence.Format(hr.Sequence{Prefix: "EMP", Padding: 4}, 12345))
	assert.Equal(t, "3", sequence.Format(hr.Sequence{}, 3))
}

func TestGenerator_Next(t *testing.T) {
	m := store.NewMemory()
	m.PutSequence(hr.Sequence{Code: hr.EmployeeSequenceCode, Prefix: "E-", Padding: 3, NextNumber: 1})
	g := sequence.NewGenerator(m)
	ctx := context.Background()

	first, err := g.Next(ctx, hr.EmployeeSequenceCode)
	require.NoError(t, err)
	second, err := g.Next(ctx, hr.EmployeeSequenceCode)
	require.NoError(t, err)

	assert.Equal(t, "E-001", first)
	assert.Equal(t, "E-002", second)
}

func TestGenerator_NextOr_MissingSequence(t *testing.T) {
	g := sequence.NewGenerator(store.NewMemory())

	_, err := g.Next(context.Background(), "nope")
	assert.ErrorIs(t, err, hr.ErrSequenceNotFound)

	s, err := g.NextOr(context.Background(), "nope", hr.SequencePlaceholder)
	require.NoError(t, err)
	assert.Equal(t, hr.SequencePlaceholder, s)
}
