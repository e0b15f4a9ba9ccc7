package validate

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

var hostnameLabel = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// shellMeta is the metacharacter set rejected by Host, Command and
// PrivateKeyPath. RemotePath and LocalPath do not check it.
var shellMeta = regexp.MustCompile("[;|`]|\\$\\(")

// Host validates a connection target: dotted-decimal IPv4, bracket-less IPv6
// per RFC 5952, or an RFC-1123 hostname. Values containing "user@host" forms,
// whitespace, or shell metacharacters are rejected outright.
func Host(host string) Result {
	if host == "" {
		return fail(issue("host", CodeInvalidHost, "host must not be empty"))
	}
	if strings.ContainsAny(host, " \t\r\n") {
		return fail(issue("host", CodeInvalidHost, "host must not contain whitespace"))
	}
	if strings.Contains(host, "@") {
		return fail(issue("host", CodeInvalidHost, "host must not contain a user@ prefix"))
	}
	if shellMeta.MatchString(host) {
		return fail(issue("host", CodeShellMetachar, "host contains shell metacharacters"))
	}

	if ip := net.ParseIP(host); ip != nil {
		return ok()
	}

	if strings.Contains(host, "..") {
		return fail(issue("host", CodeInvalidHost, "host must not contain consecutive dots"))
	}
	if len(host) > 253 {
		return fail(issue("host", CodeInvalidHost, "hostname exceeds 253 characters"))
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if !hostnameLabel.MatchString(label) {
			return fail(issue("host", CodeInvalidHost, "hostname contains an invalid label: "+label))
		}
	}

	return ok()
}

// Port validates a TCP port number in the inclusive range 1..=65535.
func Port(port int) Result {
	if port < 1 || port > 65535 {
		return fail(issue("port", CodeInvalidPort, "port must be between 1 and 65535"))
	}
	return ok()
}

// PortString parses and validates a port given as a string, as arrives from CLI flags.
func PortString(s string) Result {
	p, err := strconv.Atoi(s)
	if err != nil {
		return fail(issue("port", CodeInvalidPort, "port must be an integer"))
	}
	return Port(p)
}
