package browser

import (
	"errors"
	"testing"
)

func TestLauncher_Open(t *testing.T) {
	var got []string
	l := NewLauncher(nil)
	l.openURL = func(url string) error {
		got = append(got, url)
		return nil
	}

	if err := l.Open("https://www.twitch.tv/somestreamer"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(got) != 1 || got[0] != "https://www.twitch.tv/somestreamer" {
		t.Errorf("opened %v", got)
	}
}

func TestLauncher_OpenFailure(t *testing.T) {
	cause := errors.New("xdg-open: not found")
	l := NewLauncher(nil)
	l.openURL = func(string) error { return cause }

	err := l.Open("https://www.twitch.tv/x")
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}
	if launchErr.URL != "https://www.twitch.tv/x" {
		t.Errorf("URL = %q", launchErr.URL)
	}
	if !errors.Is(err, cause) {
		t.Error("LaunchError should unwrap to the launcher error")
	}
}

func TestLauncher_OpenEmptyURL(t *testing.T) {
	l := NewLauncher(nil)
	l.openURL = func(string) error {
		t.Fatal("launcher should not be called for an empty URL")
		return nil
	}

	if err := l.Open(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
