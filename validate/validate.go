package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field length bounds, in runes. Shared by the submission wizard and admin edits.
const (
	MinTitleLen       = 5
	MaxTitleLen       = 100
	MinDescriptionLen = 10
	MaxDescriptionLen = 1000
	MinContactLen     = 5
	MaxContactLen     = 50
)

var ErrBadTelegramID = errors.New("bad telegram id")

var (
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+998\d{9}$`), // +998901234567
		regexp.MustCompile(`^998\d{9}$`),
		regexp.MustCompile(`^\d{9}$`),
		regexp.MustCompile(`^\+\d{10,15}$`), // international
	}

	usernamePattern = regexp.MustCompile(`^@[a-zA-Z0-9_]{5,32}$`)

	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
)

func TitleOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinTitleLen && n <= MaxTitleLen
}

func DescriptionOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinDescriptionLen && n <= MaxDescriptionLen
}

func ContactOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinContactLen && n <= MaxContactLen
}

// IsPhone reports whether s looks like an Uzbek or international phone number.
func IsPhone(s string) bool {
	cleaned := nonPhoneChars.ReplaceAllString(s, "")
	for _, p := range phonePatterns {
		if p.MatchString(cleaned) {
			return true
		}
	}
	return false
}

// IsUsername reports whether s is a Telegram @username.
func IsUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// IsContact accepts either a phone number or a @username. Available as a
// stricter check, the default wizard flow only enforces length.
func IsContact(s string) bool {
	return IsPhone(s) || IsUsername(s)
}

// CleanText collapses whitespace and strips characters that break rendering.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u202e", "") // right-to-left override
	s = strings.ReplaceAll(s, "\u200b", "") // zero-width space
	return strings.Join(strings.Fields(s), " ")
}

// ParseTelegramID parses a user-entered Telegram ID.
func ParseTelegramID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrBadTelegramID
	}
	// Telegram IDs are typically 9-10 digits
	if id < 10000000 || id > 9999999999 {
		return 0, ErrBadTelegramID
	}
	return id, nil
}
