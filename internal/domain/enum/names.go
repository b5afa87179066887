package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseName maps a lowercase wire name to its index in names.
func parseName(names []string, s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

// unmarshalName accepts either the string name or the raw int.
func unmarshalName(data []byte, names []string, kind string) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s: %d", kind, i)
		}
		return i, nil
	}
	i, ok := parseName(names, str)
	if !ok {
		return 0, fmt.Errorf("invalid %s: %q", kind, str)
	}
	return i, nil
}

func scanInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case int32:
		return int(v)
	}
	return 0
}
