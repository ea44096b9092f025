package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// MaxIDsPerQuery caps the number of ids accepted by ParseIDList.
const MaxIDsPerQuery = 500

// ParseID parses a positive int64 identifier.
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// PathID reads the named path value set by http.ServeMux and parses it with ParseID.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := ParseID(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

// QueryID reads a required query parameter and parses it with ParseID.
func QueryID(r *http.Request, name string) (int64, error) {
	id, err := ParseID(r.URL.Query().Get(name))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return id, nil
}

// ParseIDList reads ids from every occurrence of the query parameter, each of which may
// hold a comma separated list. Duplicates are dropped, order is kept.
func ParseIDList(r *http.Request, name string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]struct{})
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) > MaxIDsPerQuery {
		return nil, fmt.Errorf("%s: at most %d ids allowed", name, MaxIDsPerQuery)
	}
	return ids, nil
}
