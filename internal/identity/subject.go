package identity

import "strings"

// SplitSubject turns a single raw subject string into one or more tag terms.
// The input is lowercased and trimmed before any counting or splitting, so
// every emitted tag is already in its normalized, lowercased form.
//
// It counts occurrences of ';', ',', and '/' in the (lowercased) string. If
// exactly one of those delimiters occurs strictly more often than both of the others,
// that delimiter is used to split the string; otherwise the whole string is
// emitted as a single tag. Before committing to a split, each candidate
// chunk is run through a safety pass that aborts the split (falling back to
// the whole string as one tag) when splitting would obviously break up a
// parenthetical list or a "(Fictitious character)" qualifier:
//
//   - the chunk contains the chosen delimiter but no closing ')'
//   - the chunk contains a ')' but no opening '('
//   - the chunk contains "fictitious character" (case-insensitive)
func SplitSubject(raw string) []string {
	s := strings.ToLower(strings.TrimSpace(raw))

	semi := strings.Count(s, ";")
	comma := strings.Count(s, ",")
	slash := strings.Count(s, "/")

	delim, ok := dominantDelimiter(semi, comma, slash)
	if !ok {
		return []string{s}
	}

	chunks := strings.Split(s, delim)
	for _, c := range chunks {
		if !safeChunk(c, delim) {
			return []string{s}
		}
	}

	tags := make([]string, 0, len(chunks))
	for _, c := range chunks {
		t := strings.TrimSpace(c)
		if t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return []string{s}
	}
	return tags
}

// dominantDelimiter returns the delimiter whose count strictly exceeds both
// of the others, or ok=false if no delimiter dominates (including ties).
func dominantDelimiter(semi, comma, slash int) (delim string, ok bool) {
	switch {
	case semi > comma && semi > slash:
		return ";", true
	case comma > semi && comma > slash:
		return ",", true
	case slash > semi && slash > comma:
		return "/", true
	default:
		return "", false
	}
}

func safeChunk(chunk, delim string) bool {
	if strings.Contains(strings.ToLower(chunk), "fictitious character") {
		return false
	}
	hasOpen := strings.Contains(chunk, "(")
	hasClose := strings.Contains(chunk, ")")
	if strings.Contains(chunk, delim) && !hasClose {
		return false
	}
	if hasClose && !hasOpen {
		return false
	}
	return true
}
