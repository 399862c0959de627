package keyword

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// Keyword is a single loaded keyword phrase with its compiled pattern.
type Keyword struct {
	Text    string
	Tokens  int
	Pattern *regexp.Regexp
}

// Set holds the compiled keywords for one processing run. It is immutable
// after Load and safe for concurrent use.
type Set struct {
	keywords []Keyword
}

// Load reads a newline-delimited keyword file and compiles one pattern per
// keyword. Blank lines are skipped and surrounding whitespace is trimmed.
// A missing or effectively empty file is a configuration error.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("cannot open keyword file %s: %v", path, err)}
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			texts = append(texts, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyword file %s: %w", path, err)
	}

	if len(texts) == 0 {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("keyword file %s contains no keywords", path)}
	}

	return New(texts)
}

// New compiles a set from keyword phrases. Compilation is pure and
// deterministic: the same text always yields the same pattern.
func New(texts []string) (*Set, error) {
	if len(texts) == 0 {
		return nil, &domain.ConfigError{Reason: "no keywords provided"}
	}

	keywords := make([]Keyword, 0, len(texts))
	for _, text := range texts {
		pattern, err := compilePattern(text)
		if err != nil {
			return nil, fmt.Errorf("failed to compile keyword %q: %w", text, err)
		}
		keywords = append(keywords, Keyword{
			Text:    text,
			Tokens:  len(strings.Fields(text)),
			Pattern: pattern,
		})
	}

	return &Set{keywords: keywords}, nil
}

// compilePattern builds a case-insensitive, word-boundary-anchored pattern
// for a keyword phrase. Multi-token phrases match their tokens in order,
// separated by one or more whitespace characters.
func compilePattern(text string) (*regexp.Regexp, error) {
	tokens := strings.Fields(strings.ToLower(text))
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = regexp.QuoteMeta(t)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(escaped, `\s+`) + `\b`)
}

// Matches reports whether the headline matches at least one keyword
// pattern. Patterns are tried in load order with early exit; for very
// large keyword sets this is the seam to swap in a multi-pattern matcher.
func (s *Set) Matches(headline string) bool {
	for _, kw := range s.keywords {
		if kw.Pattern.MatchString(headline) {
			return true
		}
	}
	return false
}

// Keywords returns the loaded keywords in file order.
func (s *Set) Keywords() []Keyword {
	return s.keywords
}

// Len returns the number of loaded keywords.
func (s *Set) Len() int {
	return len(s.keywords)
}
