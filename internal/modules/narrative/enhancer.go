// Package narrative layers optional generated text over reports that were already
// computed deterministically. Nothing here can fail a pipeline: each generated field
// replaces its fallback only after validation.
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/yungbote/studyflow-backend/internal/platform/openai"
)

var ErrDisabled = errors.New("narrative enhancer disabled")

// Enhancer is the text-generation contract: ordered role-tagged blocks in, text out.
type Enhancer interface {
	Generate(ctx context.Context, blocks []openai.Block, opts openai.Options) (string, error)
}

type disabled struct{}

// Disabled always fails, so every field keeps its fallback.
func Disabled() Enhancer { return disabled{} }

func (disabled) Generate(ctx context.Context, blocks []openai.Block, opts openai.Options) (string, error) {
	return "", ErrDisabled
}

// ExtractObject finds a JSON object in free text, tolerating code fences and
// surrounding prose. Decoding is attempted from each "{" in turn, so stray braces
// in the prose do not hide a later object. It returns false when no object parses.
func ExtractObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	for i := 0; i < len(text); i++ {
		next := strings.IndexByte(text[i:], '{')
		if next < 0 {
			return nil, false
		}
		i += next
		var obj map[string]any
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&obj); err == nil && obj != nil {
			return obj, true
		}
	}
	return nil, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asStringList(v any, limit int) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := asString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, true
}
