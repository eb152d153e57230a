package main

import (
	"testing"
	"time"
)

func TestPrepareConfigTickPrecedence(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "5s")

	cfg, err := prepareConfig("", "", nil)
	if err != nil {
		t.Fatalf("prepareConfig: %v", err)
	}
	if cfg.TickInterval != 5*time.Second {
		t.Fatalf("env should override the file value, got %s", cfg.TickInterval)
	}

	tick := 500 * time.Millisecond
	cfg, err = prepareConfig("", "", &tick)
	if err != nil {
		t.Fatalf("prepareConfig: %v", err)
	}
	if cfg.TickInterval != tick {
		t.Fatalf("--tick should override TICK_INTERVAL, got %s", cfg.TickInterval)
	}
}

func TestPrepareConfigRejectsNonPositiveTick(t *testing.T) {
	tick := time.Duration(0)
	if _, err := prepareConfig("", "", &tick); err == nil {
		t.Fatal("expected validation error for zero tick")
	}
}
