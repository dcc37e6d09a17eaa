package generation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/fortune/internal/domain"
	"golang.org/x/text/unicode/norm"
)

const (
	MinInsightRunes = 100
	MinChatRunes    = 10
	MaxChatRunes    = 200

	// MissionDelimiter separates a mission's title from its description.
	MissionDelimiter = "|"
	// GenericMissionTitle is used when a mission reply has no delimiter.
	GenericMissionTitle = "Today's Lucky Mission"
)

var (
	// ErrValidation marks a reply that does not satisfy its kind's rule.
	ErrValidation = errors.New("content validation failed")
	// ErrUnrecognizedLabel marks an emotion reply outside the enumeration.
	ErrUnrecognizedLabel = errors.New("unrecognized emotion label")
)

// normalize trims whitespace and composes to NFC so that length checks count
// user-perceived characters the same way regardless of encoding form.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// RuneLen is the character count used by every length rule.
func RuneLen(s string) int {
	return utf8.RuneCountInString(normalize(s))
}

// ValidateInsight accepts text of at least MinInsightRunes characters.
func ValidateInsight(raw string) (string, error) {
	s := normalize(raw)
	if n := utf8.RuneCountInString(s); n < MinInsightRunes {
		return "", fmt.Errorf("%w: insight has %d characters, need %d", ErrValidation, n, MinInsightRunes)
	}
	return s, nil
}

// ValidateChat accepts text between MinChatRunes and MaxChatRunes characters.
func ValidateChat(raw string) (string, error) {
	s := normalize(raw)
	n := utf8.RuneCountInString(s)
	if n < MinChatRunes || n > MaxChatRunes {
		return "", fmt.Errorf("%w: chat reply has %d characters, want %d..%d", ErrValidation, n, MinChatRunes, MaxChatRunes)
	}
	return s, nil
}

// ParseMission splits "title|description". Without a delimiter the whole
// text becomes the description under GenericMissionTitle.
func ParseMission(raw string) (title, description string, err error) {
	s := unquote(normalize(raw))
	if s == "" {
		return "", "", fmt.Errorf("%w: empty mission", ErrValidation)
	}

	before, after, found := strings.Cut(s, MissionDelimiter)
	if !found {
		return GenericMissionTitle, s, nil
	}

	title = unquote(strings.TrimSpace(before))
	description = unquote(strings.TrimSpace(after))
	if title == "" || description == "" {
		return "", "", fmt.Errorf("%w: mission needs a non-blank title and description", ErrValidation)
	}
	return title, description, nil
}

// ParseEmotionLabel maps a reply to the closed emotion set.
func ParseEmotionLabel(raw string) (domain.Emotion, error) {
	e, ok := domain.ParseEmotion(normalize(raw))
	if !ok {
		return domain.DefaultEmotion, fmt.Errorf("%w: %q", ErrUnrecognizedLabel, strings.TrimSpace(raw))
	}
	return e, nil
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\"'“”‘’"))
}
