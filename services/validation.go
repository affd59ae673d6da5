package services

import (
	"regexp"
	"strings"

	"github.com/Taraweeh/models"
)

var (
	usernamePattern   = regexp.MustCompile(`^[\p{L}\p{N}_\x{0600}-\x{06FF}]{3,30}$`)
	arabicTextPattern = regexp.MustCompile(`^[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}\s\d٠-٩.,،؟!؛:\-()]+$`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	controlPattern    = regexp.MustCompile(`[\x00-\x1f\x7f-\x{9f}]`)
)

var reservedUsernames = map[string]struct{}{
	"admin": {}, "api": {}, "static": {}, "login": {}, "logout": {}, "about": {},
	"contact": {}, "mosque": {}, "assets": {}, "u": {}, "s": {},
}

// ValidateUsername returns an empty string for an acceptable username,
// otherwise the message to show the user.
func ValidateUsername(username string) string {
	if username == "" || !usernamePattern.MatchString(username) {
		return "اسم المستخدم يجب أن يكون ٣-٣٠ حرف (أحرف، أرقام، أو عربي)"
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return "اسم المستخدم محجوز"
	}
	return ""
}

// IsArabicText reports whether text holds only Arabic script, digits,
// whitespace and common punctuation. Empty text passes.
func IsArabicText(text string) bool {
	if text == "" {
		return true
	}
	return arabicTextPattern.MatchString(text)
}

// SanitizeText strips HTML tags and control characters and collapses whitespace.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = controlPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func ValidArea(area string) bool {
	for _, a := range models.Areas {
		if a == area {
			return true
		}
	}
	return false
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
