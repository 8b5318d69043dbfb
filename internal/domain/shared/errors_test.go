package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	reworded := NewDomainError("INVALID_STATE", "Only pending orders can be modified")

	assert.ErrorIs(t, reworded, ErrInvalidState)
	assert.ErrorIs(t, fmt.Errorf("update order: %w", reworded), ErrInvalidState)
	assert.False(t, errors.Is(NewDomainError("NOT_FOUND", "x"), ErrInvalidState))
	assert.Equal(t, "Only pending orders can be modified", reworded.Error())
}

func TestBaseEntity_Touch(t *testing.T) {
	e := NewBaseEntity()
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	e.UpdatedAt = e.UpdatedAt.Add(-time.Hour)
	e.Touch()
	assert.True(t, e.UpdatedAt.After(e.CreatedAt.Add(-time.Minute)))
	assert.NotEqual(t, uuid.Nil, e.ID)
}
