package main

import (
	"strings"
	"testing"
)

func TestI18nInitialization(t *testing.T) {
	// Repeated initialization with any input must be safe.
	initI18n("")
	initI18n("en")
	initI18n("pl")
	initI18n("de")
	initI18n("invalid-lang")
	initI18n("en")
}

func TestTranslationLookup(t *testing.T) {
	initI18n("en")

	tests := []struct {
		key         string
		expectFound bool
	}{
		{"menu_title", true},
		{"wipe_question", true},
		{"pin_prompt", true},
		{"nonexistent_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := T(tt.key)
			found := result != "" && result != tt.key
			if found != tt.expectFound {
				t.Errorf("T(%q) = %q, expectFound %v", tt.key, result, tt.expectFound)
			}
		})
	}
}

func TestTranslationWithArgs(t *testing.T) {
	initI18n("en")

	result := T("keygen_success", "my-key")
	if !strings.Contains(result, "my-key") {
		t.Errorf("T() should interpolate the label, got %q", result)
	}

	result = T("wipe_done", 3)
	if !strings.Contains(result, "3") {
		t.Errorf("T() should interpolate the count, got %q", result)
	}
}

func TestTranslationLanguageSwitch(t *testing.T) {
	initI18n("en")
	english := T("menu_exit")

	initI18n("pl")
	polish := T("menu_exit")

	initI18n("en")

	if english == polish {
		t.Errorf("English and Polish translations should differ, both %q", english)
	}
}

func TestDetermineLang(t *testing.T) {
	tests := []struct {
		name string
		flag string
		want string
	}{
		{"explicit flag", "pl", "pl"},
		{"flag with locale suffix", "de_DE.UTF-8", "de"},
		{"uppercase normalized", "PL", "pl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLang(tt.flag); got != tt.want {
				t.Errorf("determineLang(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestDetectLanguageFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separate value", []string{"certumctl", "--lang", "pl"}, "pl"},
		{"equals form", []string{"certumctl", "--lang=de"}, "de"},
		{"absent", []string{"certumctl", "check"}, ""},
		{"trailing flag without value", []string{"certumctl", "--lang"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectLanguageFromArgs(tt.args); got != tt.want {
				t.Errorf("detectLanguageFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestConcurrentTranslationAccess(t *testing.T) {
	initI18n("en")
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = T("menu_title")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
