package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("yesterday", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{-time.Minute, "0:00:00"},
		{time.Hour, "1:00:00"},
		{59*time.Minute + 59*time.Second + 900*time.Millisecond, "0:59:59"},
		{24 * time.Hour, "1 day, 0:00:00"},
		{7*24*time.Hour - time.Second, "6 days, 23:59:59"},
		{7 * 24 * time.Hour, "7 days, 0:00:00"},
		{36*time.Hour + 5*time.Minute + 7*time.Second, "1 day, 12:05:07"},
	}
	for _, c := range cases {
		if got := FormatRemaining(c.in); got != c.want {
			t.Fatalf("FormatRemaining(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
