package session

import (
	"strconv"

	"github.com/kevinburke/ssh_config"

	"github.com/shavali-arc/quantumxfer-sub002/internal/homedir"
)

// applyUserSSHConfigDefaults fills in a Port, Username or PrivateKeyPath left unset by
// the caller from the user's ~/.ssh/config, keyed by Host. Values the caller
// already supplied are never overridden; this only plugs genuine gaps, the
// same defaulting precedence the teacher's SSH client applies.
func applyUserSSHConfigDefaults(cfg *ConnectionConfig) {
	if cfg.Port == 0 {
		if port := sshConfigGet(cfg.Host, "Port"); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				cfg.Port = p
			}
		}
	}

	if cfg.PrivateKeyPath == "" && (cfg.AuthType == AuthKey || cfg.AuthType == AuthBoth) {
		if identity := sshConfigGet(cfg.Host, "IdentityFile"); identity != "" {
			if expanded, err := homedir.Expand(identity); err == nil {
				cfg.PrivateKeyPath = expanded
			}
		}
	}

	if cfg.Username == "" {
		if user := sshConfigGet(cfg.Host, "User"); user != "" {
			cfg.Username = user
		}
	}
}

// sshConfigGet is a package variable so tests can stub out the user's real
// ~/.ssh/config file.
var sshConfigGet = ssh_config.Get
