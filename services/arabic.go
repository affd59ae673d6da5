package services

import (
	"strings"
)

var arabicFolding = strings.NewReplacer(
	"إ", "ا",
	"أ", "ا",
	"آ", "ا",
	"ى", "ي",
	"ة", "ه",
)

var namePrefixes = []string{"الشيخ ", "شيخ ", "الامام ", "امام "}

// NormalizeArabic folds letter variants, drops diacritics and tatweel,
// collapses whitespace and lowercases so names compare loosely.
func NormalizeArabic(text string) string {
	if text == "" {
		return ""
	}

	text = arabicFolding.Replace(text)
	text = strings.Map(func(r rune) rune {
		if (r >= '\u064B' && r <= '\u0652') || r == '\u0640' {
			return -1
		}
		return r
	}, text)
	text = strings.Join(strings.Fields(text), " ")

	return strings.ToLower(text)
}

// StripPrefixes removes a leading honorific and the definite article from
// each word of an already normalized name.
func StripPrefixes(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range namePrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	words := strings.Fields(text)
	for i, w := range words {
		if strings.HasPrefix(w, "ال") && len([]rune(w)) > 2 {
			words[i] = strings.TrimPrefix(w, "ال")
		}
	}
	return strings.Join(words, " ")
}

// ContainsNormalized reports whether needle occurs in haystack either
// case-insensitively or after Arabic normalization of both.
func ContainsNormalized(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
		return true
	}
	return strings.Contains(NormalizeArabic(haystack), NormalizeArabic(needle))
}
