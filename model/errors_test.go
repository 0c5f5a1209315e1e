package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageIncludesCause(t *testing.T) {
	inner := NewError(KindOverflow, "KF-OVF-001", "overflow during conversion")
	err := WrapError(KindKey, "KF-KEY-001", "invalid packed key", inner)
	assert.Equal(t, "invalid packed key: overflow during conversion", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestWrapError_NilCause(t *testing.T) {
	err := WrapError(KindDecode, "KF-HEX-001", "invalid hex", nil)
	var e *Error
	require.True(t, errors.As(err, &e), "expected structured *model.Error, got %T", err)
	assert.Nil(t, e.Cause)
	assert.Equal(t, "invalid hex", err.Error())
}

func TestIsKind_WalksStructuredChain(t *testing.T) {
	inner := NewError(KindInvalidCharacter, "KF-CHAR-001", "bad digit")
	err := fmt.Errorf("cli: %w", WrapError(KindKey, "KF-KEY-001", "invalid packed key", inner))

	assert.True(t, IsKind(err, KindKey))
	assert.True(t, IsKind(err, KindInvalidCharacter))
	assert.False(t, IsKind(err, KindOverflow))
	assert.Equal(t, KindKey, KindOf(err))
	assert.Equal(t, "KF-KEY-001", RuleID(err))
}

func TestUnstructuredErrors(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsKind(err, KindInternal))
	assert.Equal(t, Kind(""), KindOf(err))
	assert.Equal(t, "", RuleID(err))

	assert.False(t, IsKind(nil, KindInternal))
	assert.Equal(t, "", RuleID(nil))
}
