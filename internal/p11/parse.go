package p11

import (
	"regexp"
	"strings"
)

// objectHeaderRe matches the first line of each object block in a
// pkcs11-tool object listing, e.g. "Private Key Object; RSA" or
// "Data object". The lowercase variant is what the tool actually prints
// for data objects.
var objectHeaderRe = regexp.MustCompile(`^(?:Private Key|Public Key|Secret Key|Certificate|Data) [Oo]bject`)

// ParseLabels extracts the distinct object labels from an object
// listing, in listing order. The same label may appear under several
// object types; it is returned once, and exhaustive deletion sweeps all
// types per label. Surrounding whitespace is tolerated.
func ParseLabels(listing string) []string {
	var labels []string
	seen := map[string]bool{}
	for _, line := range strings.Split(listing, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "label:") {
			continue
		}
		label := unquoteLabel(strings.TrimSpace(strings.TrimPrefix(trimmed, "label:")))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// unquoteLabel strips one level of surrounding single quotes. The tool
// prints data-object labels quoted (label: 'name') while key and
// certificate labels are bare; the quotes are display formatting, not
// part of the stored label, and passing them back in --label would
// address a nonexistent object.
func unquoteLabel(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// CountObjects counts object blocks in a listing independently of label
// parsing. The wipe orchestrator cross-checks this against the parsed
// label count to detect output-format drift in the external tool.
func CountObjects(listing string) int {
	count := 0
	for _, line := range strings.Split(listing, "\n") {
		if objectHeaderRe.MatchString(strings.TrimSpace(line)) {
			count++
		}
	}
	return count
}
