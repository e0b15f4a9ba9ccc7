package validate

import (
	"regexp"
	"strings"

	"github.com/google/shlex"
)

const maxCommandLength = 4096

// deviceRedirect matches a redirection into a device or proc pseudo-filesystem,
// e.g. "> /dev/sda" or ">> /proc/self/mem".
var deviceRedirect = regexp.MustCompile(`>>?\s*/(dev|proc)/\S*`)

// networkingTools are piped into frequently enough in exploit chains that the
// spec calls them out explicitly, even though they are otherwise ordinary
// command names.
var networkingTools = []string{"nc", "ncat", "netcat", "telnet"}

// Command validates a non-interactive remote command line: it must not carry
// shell metacharacters, device/proc redirections, or pipes into networking
// utilities, and must fit within 4096 characters.
func Command(cmd string) Result {
	if cmd == "" {
		return fail(issue("command", CodeInvalidCommand, "command must not be empty"))
	}
	if len(cmd) > maxCommandLength {
		return fail(issue("command", CodeTooLong, "command exceeds 4096 characters"))
	}
	if strings.ContainsRune(cmd, 0) {
		return fail(issue("command", CodeEmbeddedNUL, "command contains an embedded NUL byte"))
	}
	if deviceRedirect.MatchString(cmd) {
		return fail(issue("command", CodeShellMetachar, "command redirects into a device or proc path"))
	}
	if pipesIntoNetworkTool(cmd) {
		return fail(issue("command", CodeShellMetachar, "command pipes into a networking utility"))
	}
	if shellMeta.MatchString(cmd) {
		return fail(issue("command", CodeShellMetachar, "command contains shell metacharacters (;, |, `, $()"))
	}
	return ok()
}

// CommandTimeout validates the optional per-command timeout: 0 means the
// caller did not supply one, and is always valid; any supplied value must
// fall within 1..3600 seconds.
func CommandTimeout(seconds int) Result {
	if seconds == 0 {
		return ok()
	}
	if seconds < 1 || seconds > 3600 {
		return fail(issue("timeoutSeconds", CodeInvalidTimeout, "timeoutSeconds must be between 1 and 3600"))
	}
	return ok()
}

func pipesIntoNetworkTool(cmd string) bool {
	if !strings.Contains(cmd, "|") {
		return false
	}
	for _, segment := range strings.Split(cmd, "|") {
		words, err := shlex.Split(strings.TrimSpace(segment))
		if err != nil || len(words) == 0 {
			continue
		}
		first := words[0]
		for _, tool := range networkingTools {
			if first == tool {
				return true
			}
		}
	}
	return false
}
