package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.PacketConn {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })
	return pc
}

func readLine(t *testing.T, pc net.PacketConn) string {
	t.Helper()
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	return string(buf[:n])
}

func TestClient_CountOverUDP(t *testing.T) {
	pc := listen(t)
	client, err := NewClient(Config{
		Address:    pc.LocalAddr().String(),
		Prefix:     " crms_console. ",
		GlobalTags: map[string]string{"env": "test"},
	})
	require.NoError(t, err)
	defer client.Close()

	client.Count("gateway.request", 1, map[string]string{"outcome": "ok", "method": "GET"})
	assert.Equal(t, "crms_console.gateway.request:1|c|#env:test,method:GET,outcome:ok", readLine(t, pc))

	client.Timing("session.purge.duration", 1500*time.Microsecond, nil)
	assert.Equal(t, "crms_console.session.purge.duration:1.5|ms|#env:test", readLine(t, pc))
}

func TestClient_LineRendering(t *testing.T) {
	c := &Client{global: map[string]string{"service": "console"}}

	tests := []struct {
		name string
		in   string
		tags map[string]string
		want string
	}{
		{"reserved chars", " gateway/call ", nil, "gateway_call:1|c|#service:console"},
		{"collapses dots", "..foo..bar.", nil, "foo.bar:1|c|#service:console"},
		{"local overrides global", "x", map[string]string{" service ": " cli "}, "x:1|c|#service:cli"},
		{"drops empty keys", "x", map[string]string{"": "ignored"}, "x:1|c|#service:console"},
		{"empty name", "  ", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.line(tt.in, "1", "c", tt.tags))
		})
	}

	assert.Equal(t, "y:2|c", (&Client{}).line("y", "2", "c", nil))
}

func TestClient_NilAndClosed(t *testing.T) {
	var nilClient *Client
	nilClient.Count("x", 1, nil)
	nilClient.Timing("x", time.Second, nil)
	require.NoError(t, nilClient.Close())

	pc := listen(t)
	client, err := NewClient(Config{Address: pc.LocalAddr().String()})
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	client.Count("after.close", 1, nil)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(Config{Address: "   "})
	require.Error(t, err)

	_, err = NewClient(Config{Address: "bad address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statsd dial")
}
