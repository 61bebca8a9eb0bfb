package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/grammar-api/internal/domain"
)

type progressKey struct {
	userID, themeID int64
}

// Memory holds the data shared by the in-memory stores. It is safe for
// concurrent use.
type Memory struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*domain.User
	themes    map[int64]*domain.Theme
	sentences map[int64]*domain.Sentence
	progress  map[progressKey]*domain.Progress
}

// NewMemory creates an empty data set.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[int64]*domain.User),
		themes:    make(map[int64]*domain.Theme),
		sentences: make(map[int64]*domain.Sentence),
		progress:  make(map[progressKey]*domain.Progress),
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// AddUser stores a user with an already hashed password.
func (m *Memory) AddUser(email, hashedPassword string) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{
		ID:             m.id(),
		Email:          domain.NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	m.users[u.ID] = u
	return *u
}

// AddTheme inserts a theme directly and returns it.
func (m *Memory) AddTheme(name string, parentID *int64) domain.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	t := &domain.Theme{ID: m.id(), Name: name, ParentID: parentID, CreatedAt: now, UpdatedAt: now}
	m.themes[t.ID] = t
	return *t
}

// AddSentence inserts a sentence at order with the given words; the word at
// correct is the right answer.
func (m *Memory) AddSentence(themeID int64, order int, text string, correct int, words ...string) domain.Sentence {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.Sentence{
		ID:              m.id(),
		Text:            text,
		Tense:           "present",
		DifficultyLevel: 1,
		ThemeID:         themeID,
		OrderInTheme:    order,
	}
	for i, w := range words {
		o := domain.NewWordOption(w, i == correct)
		o.ID = m.id()
		o.SentenceID = s.ID
		s.Options = append(s.Options, o)
	}
	m.sentences[s.ID] = s
	return cloneSentence(s)
}

// Progress returns a copy of the stored row, if any.
func (m *Memory) Progress(userID, themeID int64) (domain.Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.progress[progressKey{userID, themeID}]
	if !ok {
		return domain.Progress{}, false
	}
	return *p, true
}

// ProgressCount returns the number of stored progress rows.
func (m *Memory) ProgressCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.progress)
}

func cloneSentence(s *domain.Sentence) domain.Sentence {
	c := *s
	c.Options = append([]domain.WordOption{}, s.Options...)
	return c
}

func sortedThemes(themes map[int64]*domain.Theme) []domain.Theme {
	out := make([]domain.Theme, 0, len(themes))
	for _, t := range themes {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
