package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	urlPrefixPattern      = regexp.MustCompile(`https?://[^/\s'"]+/`)
	timeoutLiteralPattern = regexp.MustCompile(`timeout=(\d+)\)`)
)

// CollapseURLPrefixes turns "http://host:3001/http://host:3001/path" into
// "http://host:3001/path". Only immediate repeats of the same prefix collapse.
func CollapseURLPrefixes(content string) string {
	matches := urlPrefixPattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start < last {
			// Already swallowed as a repeat of the previous prefix.
			continue
		}
		prefix := content[start:end]
		next := end
		for strings.HasPrefix(content[next:], prefix) {
			next += len(prefix)
		}
		b.WriteString(content[last:end])
		last = next
	}
	b.WriteString(content[last:])
	return b.String()
}

// TimeoutRewriter replaces literal "timeout=<old>)" values using rewrites.
// Values without an entry are left untouched.
func TimeoutRewriter(rewrites map[int]int) Rule {
	return RuleFunc(func(content string) string {
		if len(rewrites) == 0 {
			return content
		}
		return timeoutLiteralPattern.ReplaceAllStringFunc(content, func(match string) string {
			digits := timeoutLiteralPattern.FindStringSubmatch(match)[1]
			old, err := strconv.Atoi(digits)
			if err != nil {
				return match
			}
			replacement, ok := rewrites[old]
			if !ok {
				return match
			}
			return "timeout=" + strconv.Itoa(replacement) + ")"
		})
	})
}

// DefaultRules returns the rules applied by the normalize command
func DefaultRules(rewrites map[int]int) []Rule {
	return []Rule{
		RuleFunc(CollapseURLPrefixes),
		TimeoutRewriter(rewrites),
	}
}
