package vectorsource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeColumn struct {
	values map[RowKey][]float64
	err    error
}

func (f *fakeColumn) FloatList(_ context.Context, rowKey RowKey) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values[rowKey], nil
}

func TestColumnSourceFetch(t *testing.T) {
	col := &fakeColumn{values: map[RowKey][]float64{1: {1, 2, 3}}}
	src := NewColumnSource(col)

	v, err := src.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v)

	v, err = src.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestColumnSourceFetchError(t *testing.T) {
	col := &fakeColumn{err: errors.New("boom")}
	src := NewColumnSource(col)

	_, err := src.Fetch(context.Background(), 1)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	var dim int
	require.NoError(t, Validate(&dim, []float64{1, 2, 3}))
	assert.Equal(t, 3, dim)

	require.NoError(t, Validate(&dim, []float64{4, 5, 6}))

	err := Validate(&dim, []float64{1, 2})
	var mismatch *ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}
