package content

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when no valid JSON array is found in the input
var ErrNoJSONFound = errors.New("no valid JSON array found in text")

// Kind is the classification of a task's generated details text.
type Kind string

const (
	KindQuiz       Kind = "quiz"
	KindFlashcards Kind = "flashcards"
	KindMarkdown   Kind = "markdown"
)

// QuizQuestion is one multiple-choice question embedded in task details.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Flashcard is one front/back card embedded in task details.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Classification is the exhaustive result of Classify. Exactly one of Quiz
// and Flashcards is non-nil unless Kind is KindMarkdown, in which case
// Markdown carries the original text unchanged.
type Classification struct {
	Kind       Kind
	Quiz       []QuizQuestion
	Flashcards []Flashcard
	Markdown   string
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ExtractJSON pulls an embedded JSON array out of free text. Generated task
// details usually wrap their payload in a markdown fence, but models also
// emit leading prose or trailing garbage, so this falls back to bracket
// matching over the whole string.
func ExtractJSON(text string) (string, error) {
	if text == "" {
		return "", ErrNoJSONFound
	}

	// Fenced block first
	if m := fencedBlock.FindStringSubmatch(text); len(m) > 1 {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	// Whole string may already be JSON
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) && (strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")) {
		return trimmed, nil
	}

	// Bracket matching over the raw text
	if candidate := matchBrackets(text); candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	return "", ErrNoJSONFound
}

// matchBrackets finds the first complete top-level array or object by depth
// counting, string- and escape-aware.
func matchBrackets(s string) string {
	startObj := strings.Index(s, "{")
	startArr := strings.Index(s, "[")

	var start int
	var openChar, closeChar byte

	switch {
	case startObj == -1 && startArr == -1:
		return ""
	case startObj == -1 || (startArr != -1 && startArr < startObj):
		start, openChar, closeChar = startArr, '[', ']'
	default:
		start, openChar, closeChar = startObj, '{', '}'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// Classify inspects free text and decides how a client should render it:
// a quiz (question/options/answer items), a flashcard deck (question/answer
// pairs), or plain markdown when no usable JSON array is embedded. Pure
// string work, no I/O; this is presentation support, not a storage concern.
func Classify(text string) Classification {
	jsonStr, err := ExtractJSON(text)
	if err != nil {
		return Classification{Kind: KindMarkdown, Markdown: text}
	}

	// Quiz items carry options; try the richer shape first
	var quiz []QuizQuestion
	if err := json.Unmarshal([]byte(jsonStr), &quiz); err == nil && isQuiz(quiz) {
		return Classification{Kind: KindQuiz, Quiz: quiz}
	}

	var cards []Flashcard
	if err := json.Unmarshal([]byte(jsonStr), &cards); err == nil && isDeck(cards) {
		return Classification{Kind: KindFlashcards, Flashcards: cards}
	}

	return Classification{Kind: KindMarkdown, Markdown: text}
}

func isQuiz(items []QuizQuestion) bool {
	if len(items) == 0 {
		return false
	}
	for _, q := range items {
		if q.Question == "" || len(q.Options) == 0 || q.Answer == "" {
			return false
		}
	}
	return true
}

func isDeck(cards []Flashcard) bool {
	if len(cards) == 0 {
		return false
	}
	for _, card := range cards {
		if card.Question == "" || card.Answer == "" {
			return false
		}
	}
	return true
}
