package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

// MockUserStore is an in-memory store.UserStore. When Err is set every
// call fails with it.
type MockUserStore struct {
	mem *Memory
	Err error
}

// MockThemeStore is an in-memory store.ThemeStore.
type MockThemeStore struct {
	mem *Memory
	Err error
}

// MockSentenceStore is an in-memory store.SentenceStore.
type MockSentenceStore struct {
	mem *Memory
	Err error
}

// MockProgressStore is an in-memory store.ProgressStore. BeforeAdvance,
// when set, runs before the cursor check so tests can interleave a
// competing writer.
type MockProgressStore struct {
	mem           *Memory
	Err           error
	BeforeAdvance func()
}

// UserStore returns a user store over m.
func (m *Memory) UserStore() *MockUserStore { return &MockUserStore{mem: m} }

// ThemeStore returns a theme store over m.
func (m *Memory) ThemeStore() *MockThemeStore { return &MockThemeStore{mem: m} }

// SentenceStore returns a sentence store over m.
func (m *Memory) SentenceStore() *MockSentenceStore { return &MockSentenceStore{mem: m} }

// ProgressStore returns a progress store over m.
func (m *Memory) ProgressStore() *MockProgressStore { return &MockProgressStore{mem: m} }

var (
	_ store.UserStore     = (*MockUserStore)(nil)
	_ store.ThemeStore    = (*MockThemeStore)(nil)
	_ store.SentenceStore = (*MockSentenceStore)(nil)
	_ store.ProgressStore = (*MockProgressStore)(nil)
)

func (s *MockUserStore) Create(_ context.Context, user *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for _, u := range s.mem.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.ID = s.mem.id()
	stored := *user
	stored.Password = ""
	s.mem.users[user.ID] = &stored
	return nil
}

func (s *MockUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	u, ok := s.mem.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *MockUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, u := range s.mem.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *MockUserStore) WithTx(*sqlx.Tx) store.UserStore { return s }

func (s *MockThemeStore) Create(_ context.Context, theme *domain.Theme) error {
	if s.Err != nil {
		return s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if theme.ParentID != nil {
		if _, ok := s.mem.themes[*theme.ParentID]; !ok {
			return store.ErrThemeNotFound
		}
	}
	for _, t := range s.mem.themes {
		if t.Name == theme.Name && sameParent(t.ParentID, theme.ParentID) {
			return store.ErrThemeExists
		}
	}
	theme.ID = s.mem.id()
	c := *theme
	s.mem.themes[theme.ID] = &c
	return nil
}

func (s *MockThemeStore) GetByID(_ context.Context, id int64) (*domain.Theme, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	t, ok := s.mem.themes[id]
	if !ok {
		return nil, store.ErrThemeNotFound
	}
	c := *t
	return &c, nil
}

func (s *MockThemeStore) FindByName(_ context.Context, name string, parentID *int64) (*domain.Theme, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for _, t := range sortedThemes(s.mem.themes) {
		if t.Name == name && sameParent(t.ParentID, parentID) {
			return &t, nil
		}
	}
	return nil, store.ErrThemeNotFound
}

func (s *MockThemeStore) List(context.Context) ([]domain.Theme, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	return sortedThemes(s.mem.themes), nil
}

func (s *MockThemeStore) SentenceCounts(context.Context) (map[int64]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	counts := make(map[int64]int)
	for _, sent := range s.mem.sentences {
		counts[sent.ThemeID]++
	}
	return counts, nil
}

func (s *MockThemeStore) WithTx(*sqlx.Tx) store.ThemeStore { return s }

func (s *MockSentenceStore) Create(_ context.Context, sentence *domain.Sentence) error {
	if s.Err != nil {
		return s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	if _, ok := s.mem.themes[sentence.ThemeID]; !ok {
		return store.ErrThemeNotFound
	}
	for _, existing := range s.mem.sentences {
		if existing.ThemeID == sentence.ThemeID && existing.OrderInTheme == sentence.OrderInTheme {
			return store.ErrSentenceOrderTaken
		}
	}
	sentence.ID = s.mem.id()
	for i := range sentence.Options {
		sentence.Options[i].ID = s.mem.id()
		sentence.Options[i].SentenceID = sentence.ID
	}
	c := cloneSentence(sentence)
	s.mem.sentences[sentence.ID] = &c
	return nil
}

func (s *MockSentenceStore) GetByID(_ context.Context, id int64) (*domain.Sentence, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	sent, ok := s.mem.sentences[id]
	if !ok {
		return nil, store.ErrSentenceNotFound
	}
	c := cloneSentence(sent)
	return &c, nil
}

func (s *MockSentenceStore) ListByTheme(_ context.Context, themeID int64) ([]domain.Sentence, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	out := []domain.Sentence{}
	for _, sent := range s.mem.sentences {
		if sent.ThemeID == themeID {
			out = append(out, cloneSentence(sent))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderInTheme < out[j].OrderInTheme })
	return out, nil
}

func (s *MockSentenceStore) ListIDs(context.Context) ([]int64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	ids := make([]int64, 0, len(s.mem.sentences))
	for id := range s.mem.sentences {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MockSentenceStore) MaxOrder(_ context.Context, themeID int64) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	maxOrder := -1
	for _, sent := range s.mem.sentences {
		if sent.ThemeID == themeID && sent.OrderInTheme > maxOrder {
			maxOrder = sent.OrderInTheme
		}
	}
	return maxOrder, nil
}

func (s *MockSentenceStore) TextExists(_ context.Context, themeID int64, text string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for _, sent := range s.mem.sentences {
		if sent.ThemeID == themeID && sent.Text == text {
			return true, nil
		}
	}
	return false, nil
}

func (s *MockSentenceStore) WithTx(*sqlx.Tx) store.SentenceStore { return s }

func (s *MockProgressStore) Get(_ context.Context, userID, themeID int64) (*domain.Progress, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	p, ok := s.mem.progress[progressKey{userID, themeID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	c := *p
	return &c, nil
}

func (s *MockProgressStore) ListByUser(_ context.Context, userID int64) ([]domain.Progress, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	out := []domain.Progress{}
	for k, p := range s.mem.progress {
		if k.userID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ThemeID < out[j].ThemeID })
	return out, nil
}

func (s *MockProgressStore) Advance(_ context.Context, userID, themeID int64, expectedIndex *int, at time.Time) (*domain.Progress, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.BeforeAdvance != nil {
		s.BeforeAdvance()
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	key := progressKey{userID, themeID}
	p, ok := s.mem.progress[key]
	if !ok {
		p = &domain.Progress{ID: s.mem.id(), UserID: userID, ThemeID: themeID, CurrentSentenceIndex: 1, CompletedSentences: 1, LastAccessed: at}
		s.mem.progress[key] = p
		c := *p
		return &c, nil
	}
	if expectedIndex != nil && p.CurrentSentenceIndex != *expectedIndex {
		return nil, store.ErrConcurrentUpdate
	}
	p.CurrentSentenceIndex++
	p.CompletedSentences++
	p.LastAccessed = at
	c := *p
	return &c, nil
}

func (s *MockProgressStore) Reset(_ context.Context, userID int64, themeIDs []int64, at time.Time) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	var n int64
	seen := make(map[int64]bool, len(themeIDs))
	for _, id := range themeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.mem.progress[progressKey{userID, id}]; ok {
			p.CurrentSentenceIndex = 0
			p.CompletedSentences = 0
			p.LastAccessed = at
			n++
		}
	}
	return n, nil
}

func (s *MockProgressStore) WithTx(*sqlx.Tx) store.ProgressStore { return s }

// SetProgress stores a progress row directly.
func (m *Memory) SetProgress(p domain.Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.id()
	}
	m.progress[progressKey{p.UserID, p.ThemeID}] = &p
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
