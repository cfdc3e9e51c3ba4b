package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// loadLabels reads a class-label file. Both a plain JSON array and an
// index-keyed object ({"0": "label", ...}) are accepted, matching the two
// formats pretrained-model exports ship with.
func loadLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil && len(arr) > 0 {
		return arr, nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}

	out := make([]string, len(m))
	for k, v := range m {
		idx, convErr := strconv.Atoi(k)
		if convErr != nil {
			return nil, fmt.Errorf("invalid label index %q: %w", k, convErr)
		}
		if idx < 0 || idx >= len(m) {
			return nil, fmt.Errorf("label index %d out of range", idx)
		}
		out[idx] = v
	}
	return out, nil
}
