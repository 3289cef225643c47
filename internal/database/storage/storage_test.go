package storage

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var pasteColumns = []string{
	"id", "title", "content", "is_private", "user_id", "username", "views", "created_at",
	"author_username", "author_email", "author_avatar_url", "comment_count",
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateUser(context.Background(), &domain.User{Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateUser_AssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "a@x.com", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetUserByID_Found(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(id.String(), "a@x.com", "hash", time.Now()))

	user, err := s.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestInsertProfileIfAbsent_UsesOnConflictDoNothing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStorage(db, testLogger())
	user := domain.User{ID: uuid.New(), Email: "bob@x.com"}
	profile := domain.NewDefaultProfile(user, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO NOTHING")).
		WithArgs(user.ID, "bob@x.com", "bob", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.InsertProfileIfAbsent(context.Background(), &profile))
}

func TestGetProfileByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetProfileByID(context.Background(), id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfileDetails_NullsAndMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStorage(db, testLogger())
	id := uuid.New()
	username := "neo"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET username = $2, bio = $3 WHERE id = $1")).
		WithArgs(id, "neo", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateProfileDetails(context.Background(), id, &username, nil))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET username")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.UpdateProfileDetails(context.Background(), id, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListProfileIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStorage(db, testLogger())
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM profiles LIMIT $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := s.ListProfileIDs(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestCountProfiles(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProfileStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := s.CountProfiles(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestListPublicPastes_NoFilter(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE p.is_private = FALSE ORDER BY p.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(pasteColumns).
			AddRow(id.String(), "Hello", "body", false, owner.String(), "bob", 3, time.Now(),
				"bob", "bob@x.com", nil, 2))

	pastes, err := s.ListPublicPastes(context.Background(), domain.PasteFilter{})
	require.NoError(t, err)
	require.Len(t, pastes, 1)
	assert.Equal(t, "Hello", pastes[0].Title)
	assert.Equal(t, "bob", pastes[0].AuthorName())
	assert.Nil(t, pastes[0].AuthorAvatarURL)
	assert.EqualValues(t, 2, pastes[0].CommentCount)
}

func TestListPublicPastes_SearchEscapesPattern(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`AND p.title ILIKE $1`)).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows(pasteColumns))

	pastes, err := s.ListPublicPastes(context.Background(), domain.PasteFilter{Query: "50%_off", SearchTitle: true})
	require.NoError(t, err)
	assert.Empty(t, pastes)
}

func TestListPublicPastes_SearchContent(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`AND p.content ILIKE $1`)).
		WithArgs("%needle%").
		WillReturnRows(sqlmock.NewRows(pasteColumns))

	_, err := s.ListPublicPastes(context.Background(), domain.PasteFilter{Query: "needle"})
	require.NoError(t, err)
}

func TestListPublicPastes_Error(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())

	mock.ExpectQuery(`FROM pastes p`).WillReturnError(errors.New("db down"))

	_, err := s.ListPublicPastes(context.Background(), domain.PasteFilter{})
	assert.ErrorContains(t, err, "db down")
}

func TestGetPublicPasteBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`regexp_replace(lower(p.title), '[^a-z0-9]+', '-', 'g')`)).
		WithArgs("hello-world").
		WillReturnRows(sqlmock.NewRows(pasteColumns).
			AddRow(id.String(), "Hello, World!", "body", false, uuid.NewString(), "bob", 0, time.Now(),
				nil, nil, nil, 0))

	paste, err := s.GetPublicPasteBySlug(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, id, paste.ID)
	assert.Equal(t, domain.AnonymousName, paste.AuthorName())
}

func TestGetPublicPasteByTitle_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`AND p.title = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetPublicPasteByTitle(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIncrementPasteViews(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`SELECT increment_paste_views($1)`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.IncrementPasteViews(context.Background(), id))
}

func TestCreatePaste(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPasteStorage(db, testLogger())
	owner := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pastes")).
		WithArgs(sqlmock.AnyArg(), "T", "C", false, owner, "bob", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	paste := &domain.Paste{Title: "T", Content: "C", UserID: owner, Username: "bob"}
	require.NoError(t, s.CreatePaste(context.Background(), paste))
	assert.NotEqual(t, uuid.Nil, paste.ID)
}

func TestListCommentsByPaste(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCommentStorage(db, testLogger())
	pasteID := uuid.New()

	cols := []string{"id", "paste_id", "user_id", "author", "content", "created_at", "profile_username", "profile_email"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.created_at ASC")).
		WithArgs(pasteID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), pasteID.String(), uuid.NewString(), "old", "first", time.Now(), "new", "a@x.com").
			AddRow(uuid.NewString(), pasteID.String(), uuid.NewString(), "carol", "second", time.Now(), nil, nil))

	comments, err := s.ListCommentsByPaste(context.Background(), pasteID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "new", comments[0].AuthorName())
	assert.Equal(t, "carol", comments[1].AuthorName())
}

func TestCreateComment_Error(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCommentStorage(db, testLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO comments")).
		WillReturnError(errors.New("fk violation"))

	err := s.CreateComment(context.Background(), &domain.Comment{PasteID: uuid.New(), Content: "hi"})
	assert.ErrorContains(t, err, "fk violation")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
