package domain

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
)

// AvatarFile — загруженный пользователем файл аватара.
type AvatarFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// IsAnimated определяет GIF по MIME-типу или по расширению имени.
func (f AvatarFile) IsAnimated() bool {
	return f.ContentType == "image/gif" || strings.HasSuffix(strings.ToLower(f.Name), ".gif")
}

// Extension — всё после последней точки имени. Если расширения в имени нет,
// берется подтип MIME (image/png → png), а без него "bin".
func (f AvatarFile) Extension() string {
	if i := strings.LastIndex(f.Name, "."); i >= 0 && i < len(f.Name)-1 {
		return f.Name[i+1:]
	}
	if mediaType, _, err := mime.ParseMediaType(f.ContentType); err == nil {
		if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" && sub != "*" {
			return sub
		}
	}
	return "bin"
}

// AvatarObjectKey строит путь объекта: <userID>/<stamp>.<ext>.
func AvatarObjectKey(userID uuid.UUID, stamp int64, ext string) string {
	return fmt.Sprintf("%s/%d.%s", userID, stamp, ext)
}
