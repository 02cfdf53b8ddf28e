// Package printfix rewrites Swift print(...) calls into structured logger calls
// with a severity level and category inferred from the message and file path.
package printfix

import (
	"fmt"
	"regexp"
	"strings"
)

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFault   Level = "fault"
)

// ParseLevel validates a level name.
func ParseLevel(raw string) (Level, error) {
	switch level := Level(strings.ToLower(strings.TrimSpace(raw))); level {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFault:
		return level, nil
	default:
		return "", fmt.Errorf("unknown log level %q", raw)
	}
}

type Category string

const (
	CategoryNetwork  Category = "network"
	CategoryAuth     Category = "auth"
	CategorySocket   Category = "socket"
	CategoryCache    Category = "cache"
	CategoryKeychain Category = "keychain"
	CategoryUI       Category = "ui"
	CategoryGeneral  Category = "general"
)

type EmojiLevel struct {
	Emoji string `yaml:"emoji" json:"emoji"`
	Level Level  `yaml:"level" json:"level"`
}

type Keywords struct {
	Error   []string `yaml:"error" json:"error"`
	Warning []string `yaml:"warning" json:"warning"`
	Info    []string `yaml:"info" json:"info"`
}

type CategoryRule struct {
	Category Category `yaml:"category" json:"category"`
	Match    []string `yaml:"match" json:"match"`
}

// Rules drives level and category inference. Emoji and category rules are
// evaluated in order; the first hit wins.
type Rules struct {
	Receiver    string         `yaml:"receiver" json:"receiver"`
	SourceFile  string         `yaml:"source_file" json:"source_file"`
	EmojiLevels []EmojiLevel   `yaml:"emoji_levels" json:"emoji_levels"`
	Keywords    Keywords       `yaml:"keywords" json:"keywords"`
	Categories  []CategoryRule `yaml:"categories" json:"categories"`
	Fallback    Category       `yaml:"fallback_category" json:"fallback_category"`
}

func DefaultRules() Rules {
	return Rules{
		Receiver:   "AppLogger.shared",
		SourceFile: "AppLogger.swift",
		EmojiLevels: []EmojiLevel{
			{"❌", LevelError},
			{"⚠️", LevelWarning},
			{"✅", LevelInfo},
			{"🔍", LevelDebug},
			{"📦", LevelInfo},
			{"📥", LevelDebug},
			{"📤", LevelDebug},
			{"🔌", LevelDebug},
			{"🔐", LevelDebug},
			{"💬", LevelDebug},
			{"🏁", LevelDebug},
			{"🎲", LevelDebug},
			{"🎮", LevelDebug},
			{"🔄", LevelDebug},
			{"🔗", LevelDebug},
			{"🏠", LevelDebug},
			{"📱", LevelDebug},
			{"▶️", LevelDebug},
			{"💥", LevelFault},
		},
		Keywords: Keywords{
			Error:   []string{"error", "failed", "ошибка", "не удалось"},
			Warning: []string{"warn", "warning", "предупреждение"},
			Info:    []string{"info", "информация", "успешно", "success"},
		},
		Categories: []CategoryRule{
			{CategoryNetwork, []string{"network", "trpc"}},
			{CategoryAuth, []string{"auth"}},
			{CategorySocket, []string{"socket"}},
			{CategoryCache, []string{"cache", "imagecache"}},
			{CategoryKeychain, []string{"keychain"}},
			{CategoryUI, []string{"viewmodel", "view"}},
		},
		Fallback: CategoryGeneral,
	}
}

// Validate rejects unknown levels and empty category names.
func (r Rules) Validate() error {
	if strings.TrimSpace(r.Receiver) == "" {
		return fmt.Errorf("logger receiver is required")
	}
	if strings.TrimSpace(r.ReceiverType()) == "" {
		return fmt.Errorf("logger receiver %q has no type name before the first dot", r.Receiver)
	}
	for _, entry := range r.EmojiLevels {
		if entry.Emoji == "" {
			return fmt.Errorf("emoji level entry has empty emoji")
		}
		if _, err := ParseLevel(string(entry.Level)); err != nil {
			return fmt.Errorf("emoji %q: %w", entry.Emoji, err)
		}
	}
	for _, rule := range r.Categories {
		if strings.TrimSpace(string(rule.Category)) == "" {
			return fmt.Errorf("category rule %v has empty category", rule.Match)
		}
	}
	return nil
}

// ReceiverType is the type name of the receiver, e.g. AppLogger for
// AppLogger.shared. Lines and files mentioning it are considered migrated.
func (r Rules) ReceiverType() string {
	name, _, _ := strings.Cut(r.Receiver, ".")
	return name
}

func (r Rules) LevelFor(message string) Level {
	for _, entry := range r.EmojiLevels {
		if strings.Contains(message, entry.Emoji) {
			return entry.Level
		}
	}

	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, r.Keywords.Error):
		return LevelError
	case containsAny(lower, r.Keywords.Warning):
		return LevelWarning
	case containsAny(lower, r.Keywords.Info):
		return LevelInfo
	default:
		return LevelDebug
	}
}

func (r Rules) CategoryFor(path string) Category {
	lower := strings.ToLower(path)
	for _, rule := range r.Categories {
		if containsAny(lower, rule.Match) {
			return rule.Category
		}
	}
	if r.Fallback == "" {
		return CategoryGeneral
	}
	return r.Fallback
}

var typePrefixPattern = regexp.MustCompile(`^[A-Za-z]+[A-Za-z0-9]*:\s*`)

// CleanMessage drops emoji markers and a leading "TypeName: " prefix.
func (r Rules) CleanMessage(message string) string {
	clean := message
	for _, entry := range r.EmojiLevels {
		clean = strings.TrimSpace(strings.ReplaceAll(clean, entry.Emoji, ""))
	}
	clean = typePrefixPattern.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if word != "" && strings.Contains(text, word) {
			return true
		}
	}
	return false
}
