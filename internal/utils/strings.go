package utils

// StringsFrom converts a decoded JSON array ([]any) or a []string into a
// []string, skipping non-string elements.
func StringsFrom(v any) []string {
	switch values := v.(type) {
	case []string:
		return append([]string(nil), values...)
	case []any:
		out := make([]string, 0, len(values))
		for _, value := range values {
			if s, ok := value.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
