package render

import (
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/session"
)

const (
	EmptyPastesMessage = "No pastes yet. Be the first to upload!"
	NoResultsMessage   = "No pastes found"
	NoBioMessage       = "No bio yet."
)

// Refresh — meta refresh: перейти на URL через Seconds секунд.
type Refresh struct {
	URL     string
	Seconds int
}

// Page — общая модель для layout.
type Page struct {
	Title   string
	Nav     NavState
	Refresh *Refresh
	Data    any
}

// NavState — то, что видит пользователь в navbar и тикере.
// Собирается из того же снимка сессии, что и остальная страница.
type NavState struct {
	LoggedIn    bool
	UserID      string
	Username    string
	Initial     string
	AvatarURL   string
	IsRich      bool
	TotalUsers  int64
	TotalPastes int64
	OnlineNow   int
}

func NewNavState(snap session.Snapshot, stats domain.Stats, onlineNow int) NavState {
	nav := NavState{
		TotalUsers:  stats.TotalUsers,
		TotalPastes: stats.TotalPastes,
		OnlineNow:   onlineNow,
	}
	if !snap.Authenticated() {
		return nav
	}

	nav.LoggedIn = true
	nav.UserID = snap.User.ID.String()
	nav.Username = snap.Username()
	nav.IsRich = snap.IsRich()
	if snap.Profile != nil {
		nav.Initial = snap.Profile.Initial()
		if snap.Profile.AvatarURL != nil {
			nav.AvatarURL = *snap.Profile.AvatarURL
		}
	}
	return nav
}

// Message — текст и тип ("success" или "error") для страниц с уведомлением.
type Message struct {
	Text string
	Kind string
}

func Success(text string) *Message { return &Message{Text: text, Kind: "success"} }
func Failure(text string) *Message { return &Message{Text: text, Kind: "error"} }

// PasteRow — строка таблицы листинга.
type PasteRow struct {
	Title        string
	Slug         string
	CommentCount int64
	Views        int64
	Author       string
	AuthorIsRich bool
	CreatedAt    string
}

// PasteTable — таблица листинга; Empty показывается, когда строк нет.
type PasteTable struct {
	Rows  []PasteRow
	Empty string
}

func NewPasteTable(items []domain.PasteListItem, empty string) PasteTable {
	rows := make([]PasteRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, PasteRow{
			Title:        p.Title,
			Slug:         p.Slug(),
			CommentCount: p.CommentCount,
			Views:        p.Views,
			Author:       p.AuthorName(),
			AuthorIsRich: p.AuthorIsRich(),
			CreatedAt:    p.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	return PasteTable{Rows: rows, Empty: empty}
}

// IndexView — главная: форма загрузки, поиск и таблица.
type IndexView struct {
	Query       string
	SearchTitle bool
	Table       PasteTable
	Upload      *Message
}

func NewIndexView(items []domain.PasteListItem, query string, searchTitle bool) IndexView {
	empty := EmptyPastesMessage
	if query != "" {
		empty = NoResultsMessage
	}
	return IndexView{
		Query:       query,
		SearchTitle: searchTitle,
		Table:       NewPasteTable(items, empty),
	}
}

// UsersView — карточки пользователей.
type UsersView struct {
	Cards []domain.UserCard
}

// PasteView — страница пасты с комментариями.
type PasteView struct {
	Paste      domain.PasteListItem
	Comments   []domain.CommentView
	CanComment bool
}

func NewPasteView(detail domain.PasteDetail, snap session.Snapshot) PasteView {
	return PasteView{
		Paste:      detail.Paste,
		Comments:   detail.Comments,
		CanComment: snap.Authenticated(),
	}
}

// ProfileView — страница профиля. Форма редактирования только у владельца.
type ProfileView struct {
	Profile   domain.Profile
	Recent    []domain.PasteListItem
	Total     int
	IsOwner   bool
	ShareURL  string
	Bio       string
	AvatarURL string
}

func NewProfileView(page domain.ProfilePage, snap session.Snapshot, baseURL string) ProfileView {
	v := ProfileView{
		Profile:  page.Profile,
		Recent:   page.RecentPastes(),
		Total:    len(page.Pastes),
		IsOwner:  snap.IsOwner(page.Profile),
		ShareURL: baseURL + "/user/" + page.Profile.ID.String(),
		Bio:      NoBioMessage,
	}
	if page.Profile.Bio != nil && *page.Profile.Bio != "" {
		v.Bio = *page.Profile.Bio
	}
	if page.Profile.AvatarURL != nil {
		v.AvatarURL = *page.Profile.AvatarURL
	}
	return v
}

// EditUsername и EditBio — текущие значения для полей формы.
func (v ProfileView) EditUsername() string {
	if v.Profile.Username == nil {
		return ""
	}
	return *v.Profile.Username
}

func (v ProfileView) EditBio() string {
	if v.Profile.Bio == nil {
		return ""
	}
	return *v.Profile.Bio
}

// LoginView — страница входа (аналог модального окна).
type LoginView struct {
	Message *Message
	Email   string
}
