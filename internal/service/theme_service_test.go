package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/mocks"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThemeService(mem *mocks.Memory) service.ThemeService {
	return service.NewThemeService(mem.ThemeStore(), mem.ProgressStore(), &mocks.MockTransactor{}, nil)
}

func names(summaries []domain.ThemeSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.Name)
	}
	return out
}

func TestThemeService_ListRootThemes(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	cases := mem.AddTheme("Cases", nil)
	genitive := mem.AddTheme("Genitive", &cases.ID)
	verbs := mem.AddTheme("Verb Conjugation", nil)
	mem.AddSentence(cases.ID, 0, "To jest ___.", 0, "dom")
	mem.AddSentence(genitive.ID, 0, "Nie mam ___.", 0, "kota")
	mem.AddSentence(verbs.ID, 0, "Ja ___.", 0, "idę")
	mem.AddSentence(verbs.ID, 1, "Ty ___.", 0, "idziesz")
	mem.SetProgress(domain.Progress{UserID: 1, ThemeID: verbs.ID, CurrentSentenceIndex: 1, CompletedSentences: 1})

	roots, err := newThemeService(mem).ListRootThemes(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"Cases", "Verb Conjugation"}, names(roots))

	assert.Equal(t, 1, roots[0].TotalSentences)
	assert.Zero(t, roots[0].CompletedSentences)
	assert.Equal(t, 2, roots[1].TotalSentences)
	assert.Equal(t, 1, roots[1].CompletedSentences)

	other, err := newThemeService(mem).ListRootThemes(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, other[1].CompletedSentences)
}

func TestThemeService_ListSubthemes(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	cases := mem.AddTheme("Cases", nil)
	genitive := mem.AddTheme("Genitive", &cases.ID)
	mem.AddTheme("Dative", &cases.ID)
	plural := mem.AddTheme("Genitive-Plural", &genitive.ID)
	mem.AddTheme("Verbs", nil)
	mem.AddSentence(plural.ID, 0, "Nie ma ___.", 0, "kotów")
	mem.SetProgress(domain.Progress{UserID: 1, ThemeID: plural.ID, CurrentSentenceIndex: 1, CompletedSentences: 1})
	svc := newThemeService(mem)

	t.Run("transitive closure depth first", func(t *testing.T) {
		subs, err := svc.ListSubthemes(ctx, cases.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Genitive", "Genitive-Plural", "Dative"}, names(subs))
		assert.Equal(t, 1, subs[1].TotalSentences)
		assert.Zero(t, subs[1].CompletedSentences, "no user context")
	})

	t.Run("completed counts with a user", func(t *testing.T) {
		userID := int64(1)
		subs, err := svc.ListSubthemes(ctx, cases.ID, &userID)
		require.NoError(t, err)
		assert.Equal(t, 1, subs[1].CompletedSentences)
	})

	t.Run("leaf has no subthemes", func(t *testing.T) {
		subs, err := svc.ListSubthemes(ctx, plural.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("missing theme", func(t *testing.T) {
		_, err := svc.ListSubthemes(ctx, 9999, nil)
		assert.ErrorIs(t, err, service.ErrThemeNotFound)
	})
}

func TestThemeService_CreateTheme(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	svc := newThemeService(mem)
	desc := "  Declension  "

	root, err := svc.CreateTheme(ctx, " Cases ", &desc, nil)
	require.NoError(t, err)
	assert.Equal(t, "Cases", root.Name)
	require.NotNil(t, root.Description)
	assert.Equal(t, "Declension", *root.Description)

	child, err := svc.CreateTheme(ctx, "Genitive", nil, &root.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, *child.ParentID)

	tests := []struct {
		name     string
		theme    string
		parentID *int64
		want     error
	}{
		{"duplicate under same parent", "Genitive", &root.ID, store.ErrThemeExists},
		{"duplicate root", "Cases", nil, store.ErrThemeExists},
		{"missing parent", "Orphan", ptr(int64(9999)), store.ErrThemeNotFound},
		{"empty name", "  ", nil, domain.ErrThemeNameEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTheme(ctx, tt.theme, nil, tt.parentID)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	same, err := svc.CreateTheme(ctx, "Genitive", nil, nil)
	require.NoError(t, err, "same name under another parent is allowed")
	assert.True(t, same.IsRoot())
}

func TestThemeService_GetTheme(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemory()
	cases := mem.AddTheme("Cases", nil)
	svc := newThemeService(mem)

	got, err := svc.GetTheme(ctx, cases.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cases", got.Name)

	_, err = svc.GetTheme(ctx, cases.ID+1)
	assert.ErrorIs(t, err, service.ErrThemeNotFound)
}

func ptr[T any](v T) *T {
	return &v
}
