package github

import "regexp"

// mentionPattern matches @username tokens not preceded by a word
// character, so `foo@bar.com` does not produce a mention but `(@bar`
// does. GitHub usernames are alphanumerics, underscore and hyphen.
var mentionPattern = regexp.MustCompile(`(?i)\B@[a-z0-9_-]+`)

// ExtractMentions returns the usernames @-mentioned in text, sigil
// stripped, deduplicated, in order of first occurrence.
func ExtractMentions(text string) []string {
	hits := mentionPattern.FindAllString(text, -1)
	if hits == nil {
		return nil
	}

	seen := make(map[string]bool, len(hits))
	usernames := make([]string, 0, len(hits))
	for _, hit := range hits {
		if seen[hit] {
			continue
		}
		seen[hit] = true
		usernames = append(usernames, hit[1:])
	}
	return usernames
}
