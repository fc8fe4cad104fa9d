package recommend

import "strings"

// Skills is a parsed comma-separated skill list. Tokens are lowercased and
// trimmed; empty tokens are dropped. Order and duplicates are kept in
// Tokens, while membership tests use the distinct set.
type Skills struct {
	tokens []string
	set    map[string]struct{}
}

// ParseSkills parses a raw skills column such as "Python, SQL,,go"
func ParseSkills(raw string) Skills {
	s := Skills{set: make(map[string]struct{})}
	for _, part := range strings.Split(raw, ",") {
		tok := strings.ToLower(strings.TrimSpace(part))
		if tok == "" {
			continue
		}
		s.tokens = append(s.tokens, tok)
		s.set[tok] = struct{}{}
	}
	return s
}

// Has reports whether the normalized skill is present
func (s Skills) Has(skill string) bool {
	_, ok := s.set[skill]
	return ok
}

// Tokens returns the normalized tokens in their original order
func (s Skills) Tokens() []string {
	return s.tokens
}

// Unique returns the distinct tokens in first-seen order
func (s Skills) Unique() []string {
	seen := make(map[string]struct{}, len(s.set))
	out := make([]string, 0, len(s.set))
	for _, tok := range s.tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Len returns the number of distinct skills
func (s Skills) Len() int {
	return len(s.set)
}

// Overlap returns the distinct skills of s that other also has, in s's order
func (s Skills) Overlap(other Skills) []string {
	var out []string
	for _, tok := range s.Unique() {
		if other.Has(tok) {
			out = append(out, tok)
		}
	}
	return out
}
