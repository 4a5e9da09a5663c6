// Package statsd emits DogStatsD-style lines over UDP.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink receives counters and timings. Implementations must be safe for concurrent use.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Config describes the UDP endpoint and naming for a Client.
type Config struct {
	Address    string
	Prefix     string
	Logger     *slog.Logger
	GlobalTags map[string]string
	// DialTimeout bounds the initial dial; zero means 5s.
	DialTimeout time.Duration
}

// Client writes one datagram per metric. A nil *Client drops everything.
type Client struct {
	prefix string
	global map[string]string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// NewClient dials cfg.Address. An empty address is an error; callers decide whether
// metrics are enabled before constructing a client.
func NewClient(cfg Config) (*Client, error) {
	addr := strings.TrimSpace(cfg.Address)
	if addr == "" {
		return nil, fmt.Errorf("statsd: empty address")
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		global: cleanTags(cfg.GlobalTags),
		logger: logger,
		conn:   conn,
	}, nil
}

// Count emits a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Timing emits a timer in fractional milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the socket. Later calls are no-ops.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line := c.line(name, value, kind, tags)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "metric", name, "error", err)
	}
}

// line renders "prefix.name:value|kind|#k:v,...". An empty name yields "".
func (c *Client) line(name, value, kind string, tags map[string]string) string {
	metric := metricName(name)
	if metric == "" {
		return ""
	}
	var b strings.Builder
	if c.prefix != "" {
		b.WriteString(c.prefix)
		b.WriteByte('.')
	}
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)

	merged := maps.Clone(c.global)
	if merged == nil {
		merged = map[string]string{}
	}
	maps.Copy(merged, cleanTags(tags))
	for i, k := range slices.Sorted(maps.Keys(merged)) {
		if i == 0 {
			b.WriteString("|#")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return b.String()
}

//nolint:gochecknoglobals // immutable replacer
var reservedChars = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "#", "_", "@", "_", ",", "_")

func metricName(name string) string {
	n := reservedChars.Replace(strings.TrimSpace(name))
	parts := strings.FieldsFunc(n, func(r rune) bool { return r == '.' })
	return strings.Join(parts, ".")
}

func cleanTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		k = reservedChars.Replace(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		out[k] = reservedChars.Replace(strings.TrimSpace(v))
	}
	return out
}
