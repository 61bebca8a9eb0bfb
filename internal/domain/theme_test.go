package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewTheme(t *testing.T) {
	t.Parallel()

	theme, err := NewTheme("  Cases ", ptr("  "), nil)
	require.NoError(t, err)
	assert.Equal(t, "Cases", theme.Name)
	assert.Nil(t, theme.Description, "blank description is dropped")
	assert.True(t, theme.IsRoot())

	sub, err := NewTheme("Genitive", ptr("Dopełniacz"), ptr(int64(1)))
	require.NoError(t, err)
	assert.False(t, sub.IsRoot())
	assert.Equal(t, "Dopełniacz", *sub.Description)
}

func TestThemeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		theme   Theme
		wantErr error
	}{
		{"empty name", Theme{}, ErrThemeNameEmpty},
		{"long name", Theme{Name: strings.Repeat("ą", MaxThemeNameLength+1)}, ErrThemeNameTooLong},
		{"bad parent", Theme{Name: "x", ParentID: ptr(int64(0))}, ErrInvalidID},
		{"self parent", Theme{ID: 4, Name: "x", ParentID: ptr(int64(4))}, ErrThemeParentSelf},
		{"max length name", Theme{Name: strings.Repeat("ą", MaxThemeNameLength)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.theme.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
