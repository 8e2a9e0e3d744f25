package logger

import "testing"

func TestSanitizeValue(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	if got := sanitizeValue("jwt_token", "abc"); got != "[REDACTED]" {
		t.Fatalf("sanitizeValue(jwt_token)=%v, want [REDACTED]", got)
	}
	got, ok := sanitizeValue("user_id", "8d1c").(string)
	if !ok || len(got) != len("hash:")+12 {
		t.Fatalf("sanitizeValue(user_id)=%v, want hash:<12 hex>", got)
	}
	if got := sanitizeValue("subject", "Physics"); got != "Physics" {
		t.Fatalf("sanitizeValue(subject)=%v, want Physics", got)
	}
	nested := sanitizeValue("meta", map[string]interface{}{"api_key": "k", "n": 3}).(map[string]interface{})
	if nested["api_key"] != "[REDACTED]" || nested["n"] != 3 {
		t.Fatalf("nested sanitize=%v", nested)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("sanitizeKVs odd=%v", out)
	}
}
