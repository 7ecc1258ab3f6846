package audit

import (
	"encoding/json"
	"strings"
	"testing"
)

func sensitiveSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func TestScrub(t *testing.T) {
	sensitive := sensitiveSet("password", "token")

	t.Run("masks_sensitive_keys", func(t *testing.T) {
		in := map[string]any{
			"email":    "alice@example.com",
			"password": "hunter2",
		}
		out := Scrub(in, sensitive).(map[string]any)

		if out["email"] != "alice@example.com" {
			t.Errorf("expected email untouched, got %v", out["email"])
		}
		if out["password"] != "hu***r2" {
			t.Errorf("expected masked password hu***r2, got %v", out["password"])
		}
	})

	t.Run("case_insensitive", func(t *testing.T) {
		in := map[string]any{"Password": "hunter2", "TOKEN": "abcdef123"}
		out := Scrub(in, sensitive).(map[string]any)

		if out["Password"] != "hu***r2" {
			t.Errorf("expected masked Password, got %v", out["Password"])
		}
		if out["TOKEN"] != "ab***23" {
			t.Errorf("expected masked TOKEN, got %v", out["TOKEN"])
		}
	})

	t.Run("recurses_into_nested_structures", func(t *testing.T) {
		in := map[string]any{
			"user": map[string]any{"password": "hunter2"},
			"items": []any{
				map[string]any{"token": "secret-value"},
			},
		}
		out := Scrub(in, sensitive).(map[string]any)

		user := out["user"].(map[string]any)
		if user["password"] != "hu***r2" {
			t.Errorf("expected nested password masked, got %v", user["password"])
		}
		item := out["items"].([]any)[0].(map[string]any)
		if item["token"] != "se***ue" {
			t.Errorf("expected token in list masked, got %v", item["token"])
		}
	})

	t.Run("string_map", func(t *testing.T) {
		in := map[string]string{"password": "hunter2", "name": "alice"}
		out := Scrub(in, sensitive).(map[string]any)

		if out["password"] != "hu***r2" {
			t.Errorf("expected masked password, got %v", out["password"])
		}
		if out["name"] != "alice" {
			t.Errorf("expected name untouched, got %v", out["name"])
		}
	})

	t.Run("does_not_mutate_input", func(t *testing.T) {
		in := map[string]any{"password": "hunter2"}
		Scrub(in, sensitive)

		if in["password"] != "hunter2" {
			t.Errorf("input map was mutated: %v", in["password"])
		}
	})

	t.Run("scalar_passthrough", func(t *testing.T) {
		if out := Scrub("plain", sensitive); out != "plain" {
			t.Errorf("expected scalar passthrough, got %v", out)
		}
		if out := Scrub(nil, sensitive); out != nil {
			t.Errorf("expected nil passthrough, got %v", out)
		}
	})
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"long_string", "hunter2", "hu***r2"},
		{"short_string", "abcd", "***"},
		{"empty_string", "", "***"},
		{"non_string", 12345, "***"},
		{"five_chars", "abcde", "ab***de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskValue(tt.value); got != tt.want {
				t.Errorf("MaskValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestCapJSON(t *testing.T) {
	t.Run("small_value", func(t *testing.T) {
		out := CapJSON(map[string]any{"a": 1})
		if out != `{"a":1}` {
			t.Errorf("unexpected encoding: %s", out)
		}
	})

	t.Run("oversized_value_becomes_marker", func(t *testing.T) {
		big := map[string]any{"blob": strings.Repeat("x", truncateBytes+1)}
		out := CapJSON(big)

		var marker map[string]any
		if err := json.Unmarshal([]byte(out), &marker); err != nil {
			t.Fatalf("marker is not valid JSON: %v", err)
		}
		if marker["_truncated"] != true {
			t.Errorf("expected _truncated marker, got %s", out)
		}
		if size, ok := marker["size"].(float64); !ok || int(size) <= truncateBytes {
			t.Errorf("expected size above cap, got %v", marker["size"])
		}
	})

	t.Run("unserializable_value", func(t *testing.T) {
		out := CapJSON(map[string]any{"ch": make(chan int)})

		var marker map[string]any
		if err := json.Unmarshal([]byte(out), &marker); err != nil {
			t.Fatalf("fallback is not valid JSON: %v", err)
		}
		if marker["_nonjson"] != true {
			t.Errorf("expected _nonjson fallback, got %s", out)
		}
	})
}

func TestTruncationMarker(t *testing.T) {
	marker := TruncationMarker(12345)
	if marker["_truncated"] != true || marker["size"] != 12345 {
		t.Errorf("unexpected marker: %v", marker)
	}
}
