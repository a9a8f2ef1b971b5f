package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type testRedisConfig struct {
	url string
}

func (c testRedisConfig) GetRedisURL() string       { return c.url }
func (c testRedisConfig) GetRedisTLSInsecure() bool { return false }

func TestParseOptions(t *testing.T) {
	if _, err := ParseOptions("", false); err == nil {
		t.Fatal("expected error for empty url")
	}

	opt, err := ParseOptions("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options %+v", opt)
	}
	if opt.TLSConfig != nil {
		t.Fatal("plain redis url must not enable TLS")
	}

	opt, err = ParseOptions("redis://localhost:6379", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config")
	}
}

func TestNewClientPings(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(context.Background(), testRedisConfig{url: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	srv.Close()
	if _, err := NewClient(context.Background(), testRedisConfig{url: "redis://" + srv.Addr()}); err == nil {
		t.Fatal("expected ping failure against a closed server")
	}
}
