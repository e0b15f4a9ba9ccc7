package validate

// SSHConnectionInput mirrors the connection config payload accepted at the
// ssh-connect channel, before it is converted into the session.ConnectionConfig
// the session manager operates on.
type SSHConnectionInput struct {
	Host           string
	Port           int
	Username       string
	AuthType       string
	Password       string
	PrivateKeyPath string
	TimeoutSeconds int
	Name           string
}

// SSHConnection applies every field validator and then requires that AuthType
// agrees with whichever credential field was actually supplied.
func SSHConnection(in SSHConnectionInput) Result {
	port := in.Port
	if port == 0 {
		port = 22
	}
	timeout := in.TimeoutSeconds
	if timeout == 0 {
		timeout = 30
	}

	results := []Result{
		Host(in.Host),
		Port(port),
		Username(in.Username),
		AuthTypeValue(in.AuthType),
		timeoutResult(timeout),
	}

	switch AuthType(in.AuthType) {
	case AuthPassword:
		if in.Password == "" {
			results = append(results, fail(issue("password", CodeAuthMissing, "authType is password but no password was supplied")))
		} else {
			results = append(results, Password(in.Password))
		}
	case AuthKey:
		if in.PrivateKeyPath == "" {
			results = append(results, fail(issue("privateKeyPath", CodeAuthMissing, "authType is key but no privateKeyPath was supplied")))
		} else {
			results = append(results, PrivateKeyPath(in.PrivateKeyPath))
		}
	case AuthBoth:
		if in.Password == "" || in.PrivateKeyPath == "" {
			results = append(results, fail(issue("authType", CodeAuthMissing, "authType is both but password and privateKeyPath must both be supplied")))
		} else {
			results = append(results, Password(in.Password), PrivateKeyPath(in.PrivateKeyPath))
		}
	default:
		// AuthTypeValue already reported the invalid authType.
	}

	return Merge(results...)
}

func timeoutResult(seconds int) Result {
	if seconds < 1 || seconds > 300 {
		return fail(issue("timeoutSeconds", CodeInvalidTimeout, "timeoutSeconds must be between 1 and 300"))
	}
	return ok()
}
