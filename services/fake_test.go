package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/battle-system/models"
	"github.com/Dosada05/battle-system/repositories"
	"github.com/Dosada05/battle-system/storage"
)

// ------------------------
// In-memory store shared by fake repositories
// ------------------------

type memStore struct {
	mu sync.Mutex

	event        *models.Event
	battles      map[int]models.Battle
	scores       map[int]models.Score
	participants map[int]models.Participant
	users        map[int]models.User

	nextEventID, nextBattleID, nextScoreID, nextParticipantID, nextUserID int
}

func newMemStore() *memStore {
	return &memStore{
		battles:      make(map[int]models.Battle),
		scores:       make(map[int]models.Score),
		participants: make(map[int]models.Participant),
		users:        make(map[int]models.User),
	}
}

// stored убирает вычисляемые поля, как это делает таблица battles.
func storedBattle(b models.Battle) models.Battle {
	b.Participant1, b.Participant2, b.Winner = nil, nil, nil
	b.Participant1Scores, b.Participant2Scores = nil, nil
	return b
}

// ------------------------
// Fake Event Repository
// ------------------------

type fakeEventRepo struct {
	s     *memStore
	trace []string

	GetFunc       func(ctx context.Context) (*models.Event, error)
	UpdateFunc    func(ctx context.Context, e *models.Event) error
	DeleteAllFunc func(ctx context.Context) error
}

func (f *fakeEventRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *fakeEventRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.record("Create")
	if f.s.event != nil {
		return repositories.ErrEventAlreadyExists
	}
	f.s.nextEventID++
	e.ID = f.s.nextEventID
	e.CreatedAt = time.Now()
	cp := *e
	cp.Battles, cp.Winner = nil, nil
	f.s.event = &cp
	return nil
}

func (f *fakeEventRepo) Get(ctx context.Context) (*models.Event, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx)
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.event == nil {
		return nil, repositories.ErrEventNotFound
	}
	cp := *f.s.event
	return &cp, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, _ repositories.SQLExecutor, e *models.Event) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, e)
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.event == nil || f.s.event.ID != e.ID {
		return repositories.ErrEventNotFound
	}
	cp := *e
	cp.Battles, cp.Winner = nil, nil
	f.s.event = &cp
	return nil
}

func (f *fakeEventRepo) DeleteAll(ctx context.Context, _ repositories.SQLExecutor) error {
	if f.DeleteAllFunc != nil {
		return f.DeleteAllFunc(ctx)
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.record("DeleteAll")
	f.s.event = nil
	f.s.battles = make(map[int]models.Battle)
	f.s.scores = make(map[int]models.Score)
	return nil
}

// ------------------------
// Fake Battle Repository
// ------------------------

type fakeBattleRepo struct {
	s *memStore

	UpdateFunc func(ctx context.Context, b *models.Battle) error
}

func (f *fakeBattleRepo) Create(_ context.Context, _ repositories.SQLExecutor, b *models.Battle) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b.NextBattleID != nil {
		if _, ok := f.s.battles[*b.NextBattleID]; !ok {
			return repositories.ErrBattleNextInvalid
		}
	}
	f.s.nextBattleID++
	b.ID = f.s.nextBattleID
	b.CreatedAt = time.Now()
	f.s.battles[b.ID] = storedBattle(*b)
	return nil
}

func (f *fakeBattleRepo) GetByID(_ context.Context, id int) (*models.Battle, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.battles[id]
	if !ok {
		return nil, repositories.ErrBattleNotFound
	}
	return &b, nil
}

func (f *fakeBattleRepo) ListByEvent(_ context.Context, eventID int, stage *models.Stage) ([]models.Battle, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]models.Battle, 0)
	for _, b := range f.s.battles {
		if b.EventID != eventID || (stage != nil && b.Stage != *stage) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage.Before(out[j].Stage)
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeBattleRepo) Update(ctx context.Context, _ repositories.SQLExecutor, b *models.Battle) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, b)
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.battles[b.ID]; !ok {
		return repositories.ErrBattleNotFound
	}
	f.s.battles[b.ID] = storedBattle(*b)
	return nil
}

// ------------------------
// Fake Score Repository
// ------------------------

type fakeScoreRepo struct {
	s *memStore

	CreateFunc func(ctx context.Context, sc *models.Score) error
}

func (f *fakeScoreRepo) Create(ctx context.Context, _ repositories.SQLExecutor, sc *models.Score) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, sc)
	}
	return f.insert(sc)
}

func (f *fakeScoreRepo) insert(sc *models.Score) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.scores {
		if existing.BattleID == sc.BattleID && existing.ParticipantID == sc.ParticipantID && existing.JudgeID == sc.JudgeID {
			return repositories.ErrScoreConflict
		}
	}
	f.s.nextScoreID++
	sc.ID = f.s.nextScoreID
	sc.CreatedAt = time.Now()
	f.s.scores[sc.ID] = *sc
	return nil
}

func (f *fakeScoreRepo) ListByBattle(_ context.Context, battleID int) ([]models.Score, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.filter(func(sc models.Score) bool { return sc.BattleID == battleID }), nil
}

func (f *fakeScoreRepo) ListByEvent(_ context.Context, eventID int) ([]models.Score, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.filter(func(sc models.Score) bool {
		b, ok := f.s.battles[sc.BattleID]
		return ok && b.EventID == eventID
	}), nil
}

func (f *fakeScoreRepo) filter(keep func(models.Score) bool) []models.Score {
	out := make([]models.Score, 0)
	for _, sc := range f.s.scores {
		if keep(sc) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeScoreRepo) DeleteByBattle(_ context.Context, _ repositories.SQLExecutor, battleID int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, sc := range f.s.scores {
		if sc.BattleID == battleID {
			delete(f.s.scores, id)
		}
	}
	return nil
}

// ------------------------
// Fake Participant Repository
// ------------------------

type fakeParticipantRepo struct {
	s *memStore
}

func (f *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextParticipantID++
	p.ID = f.s.nextParticipantID
	p.CreatedAt = time.Now()
	f.s.participants[p.ID] = *p
	return nil
}

func (f *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return &p, nil
}

func (f *fakeParticipantRepo) List(_ context.Context) ([]models.Participant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]models.Participant, 0, len(f.s.participants))
	for _, p := range f.s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeParticipantRepo) ConsumePhoenixPower(_ context.Context, id int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.participants[id]
	if !ok || !p.PhoenixPower {
		return repositories.ErrPhoenixPowerUsed
	}
	p.PhoenixPower = false
	f.s.participants[id] = p
	return nil
}

func (f *fakeParticipantRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.participants = make(map[int]models.Participant)
	return nil
}

// ------------------------
// Fake User Repository
// ------------------------

type fakeUserRepo struct {
	s *memStore
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.users {
		if existing.Nickname == u.Nickname {
			return repositories.ErrUserNicknameConflict
		}
	}
	f.s.nextUserID++
	u.ID = f.s.nextUserID
	u.CreatedAt = time.Now()
	f.s.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByNickname(_ context.Context, nickname string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Nickname == nickname {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := make([]models.User, 0)
	for _, u := range f.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	users, err := f.ListByRole(ctx, role)
	return len(users), err
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.s.users, id)
	return nil
}

// ------------------------
// Fake cache and archiver
// ------------------------

type fakeCache struct {
	mu          sync.Mutex
	event       *models.Event
	gets        int
	hits        int
	sets        int
	skipped     int
	invalidated int
	generation  int64
}

func (c *fakeCache) GetTournament(context.Context) (*models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.event == nil {
		return nil, nil
	}
	c.hits++
	return c.event, nil
}

func (c *fakeCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *fakeCache) SetTournament(_ context.Context, generation int64, e *models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		c.skipped++
		return nil
	}
	c.sets++
	c.event = e
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.generation++
	c.event = nil
	return nil
}

type fakeArchiver struct {
	archived  []*models.Event
	discarded []string
	err       error
}

func (a *fakeArchiver) Archive(_ context.Context, e *models.Event) (*storage.UploadResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.archived = append(a.archived, e)
	return &storage.UploadResult{Key: "archives/event.json"}, nil
}

func (a *fakeArchiver) Discard(_ context.Context, key string) error {
	a.discarded = append(a.discarded, key)
	return nil
}

// firstRandomizer всегда берет первое имя из оставшихся.
type firstRandomizer struct{}

func (firstRandomizer) Intn(int) int { return 0 }
