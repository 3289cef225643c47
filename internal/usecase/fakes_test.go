package usecase

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/messaging/payloads"
	"github.com/GoArmGo/PasteApp/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedSnapshot(email string) session.Snapshot {
	user := domain.User{ID: uuid.New(), Email: email}
	profile := domain.NewDefaultProfile(user, time.Now())
	return session.Snapshot{Status: session.Authenticated, User: &user, Profile: &profile}
}

type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uuid.UUID]domain.User{}} }

func (m *memUsers) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return apperr.ErrConflict
		}
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

type memProfiles struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]domain.Profile
	inserts int
	ids     []uuid.UUID
	getErr  error
	upErr   error
}

func newMemProfiles() *memProfiles { return &memProfiles{rows: map[uuid.UUID]domain.Profile{}} }

func (m *memProfiles) UpsertProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upErr != nil {
		return m.upErr
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memProfiles) InsertProfileIfAbsent(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		m.rows[p.ID] = *p
		m.inserts++
	}
	return nil
}

func (m *memProfiles) GetProfileByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) ListRecentProfiles(_ context.Context, limit int) ([]domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Profile, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memProfiles) ListProfileIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	ids := append([]uuid.UUID{}, m.ids...)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memProfiles) UpdateProfileDetails(_ context.Context, id uuid.UUID, username, bio *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.Username, p.Bio = username, bio
	m.rows[id] = p
	return nil
}

func (m *memProfiles) UpdateAvatarURL(_ context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.AvatarURL = &url
	m.rows[id] = p
	return nil
}

func (m *memProfiles) CountProfiles(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memPastes struct {
	mu     sync.Mutex
	rows   []domain.Paste
	views  map[uuid.UUID]int
	getErr error
}

func newMemPastes() *memPastes { return &memPastes{views: map[uuid.UUID]int{}} }

func (m *memPastes) CreatePaste(_ context.Context, p *domain.Paste) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memPastes) public(match func(domain.Paste) bool) []domain.PasteListItem {
	out := []domain.PasteListItem{}
	for _, p := range m.rows {
		if !p.IsPrivate && match(p) {
			out = append(out, domain.PasteListItem{Paste: p})
		}
	}
	return out
}

func (m *memPastes) ListPublicPastes(_ context.Context, f domain.PasteFilter) ([]domain.PasteListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.public(func(p domain.Paste) bool {
		if f.Query == "" {
			return true
		}
		field := p.Content
		if f.SearchTitle {
			field = p.Title
		}
		return strings.Contains(strings.ToLower(field), strings.ToLower(f.Query))
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPastes) ListPublicPastesByUser(_ context.Context, userID uuid.UUID) ([]domain.PasteListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.public(func(p domain.Paste) bool { return p.UserID == userID }), nil
}

func (m *memPastes) first(match func(domain.Paste) bool) (*domain.PasteListItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items := m.public(match)
	if len(items) == 0 {
		return nil, apperr.ErrNotFound
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return &items[0], nil
}

func (m *memPastes) GetPublicPasteByTitle(_ context.Context, title string) (*domain.PasteListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.first(func(p domain.Paste) bool { return p.Title == title })
}

func (m *memPastes) GetPublicPasteBySlug(_ context.Context, slug string) (*domain.PasteListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.first(func(p domain.Paste) bool { return p.Slug() == slug })
}

func (m *memPastes) IncrementPasteViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[id]++
	return nil
}

func (m *memPastes) CountPublicPastes(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.public(func(domain.Paste) bool { return true }))), nil
}

type memComments struct {
	mu   sync.Mutex
	rows []domain.Comment
	err  error
}

func (m *memComments) CreateComment(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memComments) ListCommentsByPaste(_ context.Context, pasteID uuid.UUID) ([]domain.CommentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CommentView{}
	for _, c := range m.rows {
		if c.PasteID == pasteID {
			out = append(out, domain.CommentView{Comment: c})
		}
	}
	return out, nil
}

type fakeFiles struct {
	keys []string
	err  error
}

func (f *fakeFiles) UploadFile(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "http://minio/avatars/" + key, nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemDenylist() *memDenylist { return &memDenylist{revoked: map[string]time.Duration{}} }

func (d *memDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[id] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[id]
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.AuthEventPayload
	views  chan payloads.PasteViewPayload
	err    error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{views: make(chan payloads.PasteViewPayload, 8)}
}

func (p *recordingPublisher) PublishAuthEvent(_ context.Context, ev payloads.AuthEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) PublishPasteView(_ context.Context, v payloads.PasteViewPayload) error {
	p.views <- v
	return p.err
}

func (p *recordingPublisher) Events() []payloads.AuthEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.AuthEventPayload{}, p.events...)
}

type memPresence struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (m *memPresence) SaveOnline(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.ids = append([]uuid.UUID{}, ids...)
	return nil
}

func (m *memPresence) LoadOnline(context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.ids, nil
}
