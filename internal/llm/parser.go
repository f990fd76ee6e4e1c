package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// A fence only ever occupies a whole line; JSON strings cannot hold raw
// newlines, so removing such lines never touches string contents.
var fencePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// ParseObject extracts the first JSON object from model output. It strips
// markdown fences, ignores text around the first balanced {...} span and
// retries once with trailing commas removed.
func ParseObject(text string) (map[string]any, error) {
	span, err := balancedSpan(cleanOutput(text), '{', '}')
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := unmarshalLenient(span, &obj); err != nil {
		return nil, fmt.Errorf("invalid LLM JSON output: %w", err)
	}
	return obj, nil
}

// ParseArray is ParseObject for a top-level JSON array.
func ParseArray(text string) ([]any, error) {
	span, err := balancedSpan(cleanOutput(text), '[', ']')
	if err != nil {
		return nil, err
	}

	var arr []any
	if err := unmarshalLenient(span, &arr); err != nil {
		return nil, fmt.Errorf("invalid LLM JSON output: %w", err)
	}
	return arr, nil
}

func cleanOutput(text string) string {
	if strings.Contains(text, "```") {
		text = fencePattern.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func unmarshalLenient(span string, v any) error {
	err := json.Unmarshal([]byte(span), v)
	if err == nil {
		return nil
	}
	repaired := dropTrailingCommas(span)
	if repaired == span {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}

// dropTrailingCommas removes commas that directly precede a closing
// bracket. String literals are copied untouched.
func dropTrailingCommas(span string) string {
	var sb strings.Builder
	sb.Grow(len(span))

	inString := false
	escaped := false

	for i := 0; i < len(span); i++ {
		c := span[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			sb.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(span) && isJSONSpace(span[j]) {
				j++
			}
			if j < len(span) && (span[j] == '}' || span[j] == ']') {
				continue
			}
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// balancedSpan returns text from the first open byte to its matching close,
// skipping brackets inside string literals.
func balancedSpan(text string, open, close byte) (string, error) {
	if text == "" {
		return "", errors.New("empty LLM output")
	}

	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", fmt.Errorf("no JSON %c found in LLM output", open)
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON %c in LLM output", open)
}
