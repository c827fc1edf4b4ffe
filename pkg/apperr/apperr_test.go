package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := errors.New("boom")
	err := Wrap("Click", CodeActionFailed, base, map[string]any{
		MetaSelector: "#submit",
	})

	assert.Equal(t, "Click: boom", err.Error())
	assert.ErrorIs(t, err, base)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "#submit", appErr.Metadata[MetaSelector])
}

func TestWrapNilMetadata(t *testing.T) {
	err := Wrap("Op", CodeInternal, nil, nil)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.NotNil(t, appErr.Metadata)
	assert.Equal(t, "Op", err.Error())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("x"), want: CodeInternal},
		{name: "app error", err: WrapWithReason("Find", CodeNotFound, errors.New("x"), "model_not_found"), want: CodeNotFound},
		{
			name: "outermost wins",
			err:  Wrap("Outer", CodeActionFailed, InvalidReqError("Inner", "q", errors.New("x")), nil),
			want: CodeActionFailed,
		},
		{
			name: "wrapped by fmt",
			err:  fmt.Errorf("ctx: %w", WrapErrorWithReason("Op", CodeTimeout, "slow")),
			want: CodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "no_candidates", Reason(WrapErrorWithReason("Extract", CodeExtractionFailed, "no_candidates")))
	assert.Equal(t, "", Reason(errors.New("plain")))
}
