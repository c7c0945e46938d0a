// Package names derives provider-safe resource names.
package names

import "strings"

// DNSLabel converts value to a lowercase alphanumeric string with hyphens as
// the only separator. Consecutive hyphens are collapsed and leading/trailing
// hyphens are trimmed, so the result is usable as a hostname label.
func DNSLabel(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ""
	}

	var builder strings.Builder

	prevHyphen := false

	for _, char := range trimmed {
		switch {
		case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
			builder.WriteRune(char)

			prevHyphen = false
		default:
			if !prevHyphen {
				builder.WriteRune('-')

				prevHyphen = true
			}
		}
	}

	return strings.Trim(builder.String(), "-")
}

// Join sanitizes and joins parts with hyphens, skipping parts that sanitize to
// the empty string.
func Join(parts ...string) string {
	labels := make([]string, 0, len(parts))

	for _, part := range parts {
		if label := DNSLabel(part); label != "" {
			labels = append(labels, label)
		}
	}

	return strings.Join(labels, "-")
}
