package validate

import "regexp"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// Username validates an SSH username: 1-32 characters drawn from [A-Za-z0-9_.-].
func Username(username string) Result {
	if username == "" {
		return fail(issue("username", CodeInvalidUsername, "username must not be empty"))
	}
	if len(username) > 32 {
		return fail(issue("username", CodeInvalidUsername, "username must be at most 32 characters"))
	}
	if !usernamePattern.MatchString(username) {
		return fail(issue("username", CodeInvalidUsername, "username contains disallowed characters"))
	}
	return ok()
}

// Password validates a password: 1-256 bytes, any codepoint, non-empty.
func Password(password string) Result {
	if len(password) == 0 {
		return fail(issue("password", CodeInvalidPassword, "password must not be empty"))
	}
	if len(password) > 256 {
		return fail(issue("password", CodeInvalidPassword, "password must be at most 256 bytes"))
	}
	return ok()
}

// AuthType is the closed set of supported SSH authentication strategies.
type AuthType string

const (
	AuthPassword AuthType = "password"
	AuthKey      AuthType = "key"
	AuthBoth     AuthType = "both"
)

// AuthTypeValue validates that the given string is one of the recognized auth types.
func AuthTypeValue(authType string) Result {
	switch AuthType(authType) {
	case AuthPassword, AuthKey, AuthBoth:
		return ok()
	default:
		return fail(issue("authType", CodeInvalidAuthType, "authType must be one of password, key, both"))
	}
}
