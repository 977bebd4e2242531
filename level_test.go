package loghub

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Level{
		"trace":   LevelTrace,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"Warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("fatal"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("err = %v, want ErrUnknownLevel", err)
	}
}

func TestLevelOrderingAndString(t *testing.T) {
	t.Parallel()

	if !(LevelTrace < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Fatalf("levels are not ordered")
	}
	if !LevelWarn.Enabled(LevelInfo) || LevelInfo.Enabled(LevelWarn) {
		t.Fatalf("Enabled is inverted")
	}
	for _, l := range []Level{LevelTrace, LevelInfo, LevelWarn, LevelError} {
		back, err := ParseLevel(l.String())
		if err != nil || back != l {
			t.Fatalf("round trip %v: %v, %v", l, back, err)
		}
	}
	if got := Level(2).String(); got != "Level(2)" {
		t.Fatalf("unknown level string = %q", got)
	}
}
