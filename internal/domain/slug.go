package domain

import "strings"

// Slugify переводит заголовок в нижний регистр и заменяет каждую серию
// символов вне [a-z0-9] одним дефисом; дефисы по краям обрезаются.
// Slug не уникален и нигде не хранится.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// DecodeSlug заменяет дефисы пробелами. Преобразование с потерями:
// исходные регистр, пунктуация и серии пробелов не восстанавливаются.
func DecodeSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
