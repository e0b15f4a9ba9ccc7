package log

import (
	"fmt"
	"regexp"
	"strings"
)

// sensitiveKey matches metadata field names that must never reach a sink unredacted.
var sensitiveKey = regexp.MustCompile(`(?i)password|passphrase|private.?key|secret|token|credential|authorization`)

// sensitiveKV matches "key=value" patterns embedded inside a string value, e.g. a
// command line or an error message that happens to carry "password=hunter2".
var sensitiveKV = regexp.MustCompile(`(?i)(password|passphrase|private[_.-]?key|secret|token|credential|authorization)\s*=\s*([^\s,;]+)`)

// Redacted is the literal substitution used in place of any sensitive value.
const Redacted = "[REDACTED]"

// RedactMetadata walks v recursively through map[string]any and []any values
// and replaces any value whose key matches sensitiveKey with Redacted. String
// values are additionally scanned for embedded key=value secrets. Values of
// any other type, structs and typed maps included, are returned unchanged and
// not walked. A map that contains itself is broken with a visited set and
// rendered as the literal string "[circular]".
func RedactMetadata(v any) any {
	return redactValue(v, make(map[any]bool))
}

func redactValue(v any, visited map[any]bool) any {
	switch t := v.(type) {
	case map[string]any:
		if visited[anyKey(t)] {
			return "[circular]"
		}
		visited[anyKey(t)] = true
		out := make(map[string]any, len(t))
		for k, val := range t {
			if sensitiveKey.MatchString(k) {
				out[k] = Redacted
				continue
			}
			out[k] = redactValue(val, visited)
		}
		delete(visited, anyKey(t))
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = redactValue(val, visited)
		}
		return out
	case string:
		return RedactString(t)
	default:
		return t
	}
}

// anyKey returns the map's pointer identity, used as the visited-set key for
// cycle detection.
func anyKey(m map[string]any) any {
	return fmt.Sprintf("%p", m)
}

// RedactString replaces any embedded key=value secret inside s with Redacted.
func RedactString(s string) string {
	return sensitiveKV.ReplaceAllStringFunc(s, func(match string) string {
		parts := sensitiveKV.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}
		return parts[1] + "=" + Redacted
	})
}

// TruncateCommand returns cmd unchanged when it is at most n bytes long;
// otherwise it keeps the first n bytes, trims surrounding whitespace and
// appends "...", so the result can be up to n+3 bytes. SSH command/duration
// log pairs use n = 200.
func TruncateCommand(cmd string, n int) string {
	if len(cmd) <= n {
		return cmd
	}
	return strings.TrimSpace(cmd[:n]) + "..."
}
