package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

const mask = "***"

// maxScrubDepth bounds recursion so cyclic or absurdly nested inputs
// terminate instead of exhausting the stack.
const maxScrubDepth = 64

// Scrub walks an arbitrary decoded structure and masks the values of any
// map key whose lowercase form is in the sensitive set. Non-sensitive
// values are recursed into; scalar leaves pass through unchanged.
//
// The masking decision itself cannot fail; any failure in the surrounding
// machinery returns the input unchanged rather than breaking the caller.
func Scrub(value any, sensitive map[string]struct{}) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = value
		}
	}()
	return scrub(value, sensitive, 0)
}

func scrub(value any, sensitive map[string]struct{}, depth int) any {
	if depth > maxScrubDepth {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		clean := make(map[string]any, len(v))
		for k, val := range v {
			if _, ok := sensitive[strings.ToLower(k)]; ok {
				clean[k] = MaskValue(val)
			} else {
				clean[k] = scrub(val, sensitive, depth+1)
			}
		}
		return clean
	case map[string]string:
		clean := make(map[string]any, len(v))
		for k, val := range v {
			if _, ok := sensitive[strings.ToLower(k)]; ok {
				clean[k] = MaskValue(val)
			} else {
				clean[k] = val
			}
		}
		return clean
	case []any:
		clean := make([]any, len(v))
		for i, item := range v {
			clean[i] = scrub(item, sensitive, depth+1)
		}
		return clean
	default:
		return value
	}
}

// MaskValue replaces a sensitive value with a placeholder. Strings longer
// than four characters keep their first and last two characters so an
// operator can still correlate values ("hunter2" becomes "hu***r2");
// everything else collapses to the constant mask.
func MaskValue(value any) string {
	s, ok := value.(string)
	if !ok || len(s) <= 4 {
		return mask
	}
	return s[:2] + mask + s[len(s)-2:]
}

// CapJSON serializes a value to JSON, replacing anything whose encoded form
// exceeds the size cap with a small truncation marker. Values that cannot
// be serialized fall back to a capped string rendering.
func CapJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		txt := fmt.Sprintf("%v", value)
		if len(txt) > truncateBytes {
			txt = txt[:truncateBytes] + "(truncated)"
		}
		data, err = json.Marshal(map[string]any{"_nonjson": true, "value": txt})
		if err != nil {
			return ""
		}
		return string(data)
	}
	if len(data) > truncateBytes {
		marker, _ := json.Marshal(map[string]any{"_truncated": true, "size": len(data)})
		return string(marker)
	}
	return string(data)
}

// TruncationMarker is the structured stand-in for an oversized request body.
func TruncationMarker(size int) map[string]any {
	return map[string]any{"_truncated": true, "size": size}
}
