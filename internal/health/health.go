package health

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultTimeout bounds a single probe when the caller's context carries no
// earlier deadline.
const DefaultTimeout = 5 * time.Second

// Check is an asynchronous health predicate. It returns whether the service
// answered, or an error when the probe itself misbehaved (as opposed to the
// service merely being unreachable, which is reported as false, nil).
type Check func(ctx context.Context) (bool, error)

// TCPCheck reports healthy when a TCP connection to host:port can be
// established and cleanly closed. Connection refused or timeout means
// unhealthy, never an error.
func TCPCheck(host string, port int) Check {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	return func(ctx context.Context) (bool, error) {
		ctx, cancel := withDefaultTimeout(ctx)
		defer cancel()
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false, nil
		}
		_ = conn.Close()
		return true, nil
	}
}

// ReplyCheck reports healthy when the service accepts a connection, and
// answers the probe message with at least one non-empty line before the
// deadline. Used for daemons with a line-oriented control protocol, such as
// rigctld's "\get_info".
func ReplyCheck(host string, port int, probe string) Check {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	return func(ctx context.Context) (bool, error) {
		ctx, cancel := withDefaultTimeout(ctx)
		defer cancel()
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false, nil
		}
		defer func() { _ = conn.Close() }()
		if dl, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(dl)
		}
		if _, err := conn.Write([]byte(probe)); err != nil {
			return false, nil
		}
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil && line == "" {
			return false, nil
		}
		return len(line) > 0, nil
	}
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
