package check

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
)

// DatabaseCheck inspects the configured database URL. SQLite files are
// checked for existence; PostgreSQL servers get a TCP reachability probe.
// Neither case is a hard failure: the database may legitimately be created
// on first run or unreachable from the operator's machine.
type DatabaseCheck struct {
	URL     string
	Timeout time.Duration

	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	const name = "database"

	switch {
	case strings.HasPrefix(c.URL, "sqlite:///"):
		path := strings.TrimPrefix(c.URL, "sqlite:///")
		if _, err := os.Stat(path); err != nil {
			return warn(name, fmt.Sprintf("sqlite file %s does not exist yet — it will be created on first run", path))
		}
		return pass(name, fmt.Sprintf("sqlite file %s exists", path))

	case strings.HasPrefix(c.URL, "postgres://"), strings.HasPrefix(c.URL, "postgresql://"):
		addr, err := postgresAddr(c.URL)
		if err != nil {
			return warn(name, fmt.Sprintf("cannot parse database URL: %v", err))
		}
		return c.dialCheck(ctx, name, addr)

	case c.URL == "":
		return warn(name, "no database URL configured")

	default:
		return warn(name, fmt.Sprintf("unknown database type in URL %q", redactURL(c.URL)))
	}
}

func (c *DatabaseCheck) dialCheck(ctx context.Context, name, addr string) Result {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	dial := c.Dial
	if dial == nil {
		d := &net.Dialer{Timeout: timeout}
		dial = d.DialContext
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dial(dialCtx, "tcp", addr)
	if err != nil {
		return warn(name, fmt.Sprintf("postgres at %s is not reachable from here: %v", addr, err))
	}
	conn.Close()
	return pass(name, fmt.Sprintf("postgres at %s is reachable", addr))
}

// postgresAddr extracts host:port from a postgres URL, defaulting to port 5432.
func postgresAddr(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in database URL")
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	return net.JoinHostPort(host, port), nil
}

// redactURL strips userinfo so credentials never reach the console.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}
