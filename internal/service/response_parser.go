package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/makeasinger/lyricarchitect/internal/model"
	"github.com/makeasinger/lyricarchitect/internal/prompt"
)

const codeFence = "```"

// ParseResponse turns raw model text into a GenerationResult.
// Undecodable text fails with KindMalformedResponse; a decoded object without
// non-empty string lyrics and styleDescription fails with KindMissingField.
func ParseResponse(raw string) (*model.GenerationResult, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, newGenerationError(KindMalformedResponse, fmt.Errorf("invalid JSON response: %w", err))
	}
	if obj == nil {
		return nil, newGenerationError(KindMalformedResponse, errors.New("response is not a JSON object"))
	}

	lyrics, _ := obj[prompt.KeyLyrics].(string)
	style, _ := obj[prompt.KeyStyleDescription].(string)

	var missing []string
	if lyrics == "" {
		missing = append(missing, prompt.KeyLyrics)
	}
	if style == "" {
		missing = append(missing, prompt.KeyStyleDescription)
	}
	if len(missing) > 0 {
		return nil, newGenerationError(KindMissingField, fmt.Errorf("missing or empty fields: %s", strings.Join(missing, ", ")))
	}

	return &model.GenerationResult{
		Lyrics:           lyrics,
		StyleDescription: style,
	}, nil
}

// stripCodeFence removes a leading ``` or ```json opener and a trailing ``` closer
func stripCodeFence(s string) string {
	if strings.HasPrefix(s, codeFence) {
		s = strings.TrimPrefix(s, codeFence)
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), codeFence)
	return strings.TrimSpace(s)
}
