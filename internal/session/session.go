// Package session хранит состояние сессии одного запроса: пользователь,
// его профиль и статус. Все переходы проходят через State.Apply, поэтому
// вход по логину и восстановление по токену сходятся к одному результату.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GoArmGo/PasteApp/internal/domain"
)

type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

type EventType string

const (
	SignedIn  EventType = "SIGNED_IN"
	SignedOut EventType = "SIGNED_OUT"
)

// Event — смена состояния аутентификации.
type Event struct {
	Type EventType
	User *domain.User
}

// Snapshot — неизменяемый снимок состояния.
type Snapshot struct {
	Status  Status
	User    *domain.User
	Profile *domain.Profile
}

func (s Snapshot) Authenticated() bool {
	return s.Status == Authenticated && s.User != nil
}

// Username — снимок имени для новых паст и комментариев.
func (s Snapshot) Username() string {
	if s.Profile == nil {
		return domain.AnonymousName
	}
	return s.Profile.DisplayName()
}

// IsRich — проходит ли текущий пользователь tier gate.
func (s Snapshot) IsRich() bool {
	return s.User != nil && domain.IsRichUser(s.User.Email)
}

// IsOwner — принадлежит ли профиль текущему пользователю.
func (s Snapshot) IsOwner(profile domain.Profile) bool {
	return s.Authenticated() && s.User.ID == profile.ID
}

// ProfileLoader реализует get-or-create профиля.
type ProfileLoader interface {
	GetOrCreateProfile(ctx context.Context, user domain.User) (*domain.Profile, error)
}

// State — состояние сессии с наблюдателями.
type State struct {
	mu        sync.RWMutex
	snap      Snapshot
	loader    ProfileLoader
	logger    *slog.Logger
	observers []func(Snapshot)
}

func New(loader ProfileLoader, logger *slog.Logger) *State {
	return &State{loader: loader, logger: logger}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe регистрирует наблюдателя; он вызывается после каждого перехода.
func (s *State) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// BeginAuth переводит анонимную сессию в Authenticating на время проверки учетных данных.
func (s *State) BeginAuth() {
	s.transition(func(snap *Snapshot) bool {
		if snap.Status != Anonymous {
			return false
		}
		snap.Status = Authenticating
		return true
	})
}

// FailAuth возвращает Authenticating обратно в Anonymous.
func (s *State) FailAuth() {
	s.transition(func(snap *Snapshot) bool {
		if snap.Status != Authenticating {
			return false
		}
		*snap = Snapshot{}
		return true
	})
}

// Apply — единственная точка согласования событий аутентификации.
// SIGNED_IN для уже вошедшего пользователя с загруженным профилем ничего не меняет.
func (s *State) Apply(ctx context.Context, ev Event) Snapshot {
	switch ev.Type {
	case SignedIn:
		if ev.User == nil {
			return s.Snapshot()
		}
		current := s.Snapshot()
		if current.Authenticated() && current.User.ID == ev.User.ID && current.Profile != nil {
			return current
		}

		user := *ev.User
		profile := s.loadProfile(ctx, user)
		s.transition(func(snap *Snapshot) bool {
			*snap = Snapshot{Status: Authenticated, User: &user, Profile: profile}
			return true
		})

	case SignedOut:
		s.transition(func(snap *Snapshot) bool {
			if snap.Status == Anonymous && snap.User == nil {
				return false
			}
			*snap = Snapshot{}
			return true
		})
	}

	return s.Snapshot()
}

func (s *State) loadProfile(ctx context.Context, user domain.User) *domain.Profile {
	if s.loader == nil {
		return nil
	}
	profile, err := s.loader.GetOrCreateProfile(ctx, user)
	if err != nil {
		s.logger.Error("failed to load profile for session", "user_id", user.ID, "error", err)
		return nil
	}
	return profile
}

func (s *State) transition(mutate func(*Snapshot) bool) {
	s.mu.Lock()
	changed := mutate(&s.snap)
	snap := s.snap
	observers := append([]func(Snapshot){}, s.observers...)
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(snap)
	}
}

type ctxKeyState struct{}

// WithState кладет состояние сессии в контекст запроса.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKeyState{}, st)
}

// FromContext достает состояние; без него возвращается пустая анонимная сессия.
func FromContext(ctx context.Context) *State {
	if st, ok := ctx.Value(ctxKeyState{}).(*State); ok && st != nil {
		return st
	}
	return New(nil, slog.Default())
}
