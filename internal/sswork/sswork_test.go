// Public domain.

package sswork_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/siddhanta/internal/sswork"
)

func TestRunOrder(t *testing.T) {
	res, err := sswork.Run(context.Background(), 50, func(i int) (int, error) {
		// later jobs finish first
		time.Sleep(time.Duration(50-i) * 100 * time.Microsecond)
		return i * i, nil
	})
	require.NoError(t, err)
	require.Len(t, res, 50)
	for i, v := range res {
		assert.Equal(t, i*i, v)
	}
}

func TestRunEmpty(t *testing.T) {
	res, err := sswork.Run(context.Background(), 0, func(int) (string, error) {
		t.Fatal("no jobs expected")
		return "", nil
	})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRunError(t *testing.T) {
	boom := errors.New("boom")
	_, err := sswork.Run(context.Background(), 20, func(i int) (int, error) {
		if i == 7 {
			return 0, boom
		}
		return i, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sswork.Run(ctx, 1000, func(i int) (int, error) {
		time.Sleep(time.Millisecond)
		return i, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
