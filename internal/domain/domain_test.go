package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRichUser(t *testing.T) {
	assert.True(t, IsRichUser(RichUserEmail))
	assert.False(t, IsRichUser("a@x.com"))
	assert.False(t, IsRichUser(""))
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "a", DefaultUsername("a@x.com"))
	assert.Equal(t, "noat", DefaultUsername("noat"))
}

func TestNewDefaultProfile(t *testing.T) {
	user := User{ID: uuid.New(), Email: "alice@example.com"}
	now := time.Now()

	p := NewDefaultProfile(user, now)

	require.NotNil(t, p.Username)
	assert.Equal(t, user.ID, p.ID)
	assert.Equal(t, "alice", *p.Username)
	assert.Equal(t, "alice", p.DisplayName())
	assert.Equal(t, "A", p.Initial())
	assert.Nil(t, p.Bio)
	assert.Nil(t, p.AvatarURL)
}

func TestProfileDisplayNameFallback(t *testing.T) {
	empty := ""
	assert.Equal(t, AnonymousName, Profile{}.DisplayName())
	assert.Equal(t, AnonymousName, Profile{Username: &empty}.DisplayName())
	assert.Equal(t, "", Profile{}.Initial())
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	assert.Nil(t, OptionalString("   "))

	got := OptionalString("  bio ")
	require.NotNil(t, got)
	assert.Equal(t, "bio", *got)
}

func TestAvatarFileIsAnimated(t *testing.T) {
	assert.True(t, AvatarFile{Name: "cat.gif", ContentType: "image/gif"}.IsAnimated())
	assert.True(t, AvatarFile{Name: "CAT.GIF", ContentType: "application/octet-stream"}.IsAnimated())
	assert.True(t, AvatarFile{Name: "cat", ContentType: "image/gif"}.IsAnimated())
	assert.False(t, AvatarFile{Name: "cat.png", ContentType: "image/png"}.IsAnimated())
}

func TestAvatarObjectKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	f := AvatarFile{Name: "me.photo.png"}

	assert.Equal(t, "png", f.Extension())
	assert.Equal(t, "11111111-2222-3333-4444-555555555555/1700000000000.png",
		AvatarObjectKey(id, 1700000000000, f.Extension()))
}

func TestAvatarFileExtensionFallback(t *testing.T) {
	cases := []struct {
		name string
		file AvatarFile
		want string
	}{
		{"from name", AvatarFile{Name: "me.JPG", ContentType: "image/png"}, "JPG"},
		{"no dot uses mime subtype", AvatarFile{Name: "avatar", ContentType: "image/png"}, "png"},
		{"mime params ignored", AvatarFile{Name: "avatar", ContentType: "image/webp; q=1"}, "webp"},
		{"trailing dot uses mime subtype", AvatarFile{Name: "avatar.", ContentType: "image/gif"}, "gif"},
		{"nothing known", AvatarFile{Name: "avatar"}, "bin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.file.Extension())
		})
	}

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "11111111-2222-3333-4444-555555555555/42.png",
		AvatarObjectKey(id, 42, AvatarFile{Name: "avatar", ContentType: "image/png"}.Extension()))
}

func TestProfilePageRecentPastes(t *testing.T) {
	page := ProfilePage{Pastes: make([]PasteListItem, 7)}
	assert.Len(t, page.RecentPastes(), RecentPastesLimit)

	page.Pastes = page.Pastes[:2]
	assert.Len(t, page.RecentPastes(), 2)
}

func TestCommentViewAuthorName(t *testing.T) {
	name := "bob"
	assert.Equal(t, "bob", CommentView{ProfileUsername: &name}.AuthorName())
	assert.Equal(t, "snap", CommentView{Comment: Comment{Author: "snap"}}.AuthorName())
	assert.Equal(t, AnonymousName, CommentView{}.AuthorName())
}
