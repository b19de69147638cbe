package gameerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorNameWrapped(t *testing.T) {
	err := fmt.Errorf("step 3: %w", ErrMScoreUpdate)
	assert.Equal(t, "ScoreUpdate", GetErrorName(err))
	assert.Equal(t, "M7", GetErrorCode(err))
	assert.Equal(t, "M7_ScoreUpdate", GetErrorCodeWithName(err))
	assert.True(t, IsRelationError(err))
	assert.False(t, IsInputError(err))
}

func TestGetErrorNameOutermostWins(t *testing.T) {
	inner := fmt.Errorf("fold: %w", ErrFLocationGap)
	err := fmt.Errorf("%w: %w", ErrCInvalidProof, inner)
	assert.Equal(t, "C1", GetErrorCode(err))
	assert.True(t, errors.Is(err, ErrFLocationGap))
}

func TestGetErrorNameUnknown(t *testing.T) {
	assert.Equal(t, "No Error", GetErrorName(nil))
	assert.Equal(t, "boom", GetErrorName(errors.New("boom")))
	assert.Equal(t, "", GetErrorCode(errors.New("boom")))
	assert.True(t, IsInputError(ErrIUnknownOpcode))
}
