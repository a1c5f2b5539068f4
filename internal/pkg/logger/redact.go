package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactIdentity masks a caller identity (user id or network origin),
// keeping a short prefix so related log lines can still be correlated.
func RedactIdentity(id string) string {
	if strings.Contains(id, "@") {
		return RedactEmail(id)
	}
	if len(id) > 4 {
		return id[:4] + "***"
	}
	return "***"
}
