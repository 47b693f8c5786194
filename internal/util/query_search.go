package util

import (
	"strings"

	"github.com/nakachan-ing/pitch-cli/internal/model"
)

// ProjectFilter selects exported applications. Empty fields match anything.
type ProjectFilter struct {
	Query    string
	Category string
	Stage    string
}

// FullTextSearch reports whether any field of p contains query, ignoring case.
func FullTextSearch(p model.ProjectData, query string) bool {
	if query == "" {
		return true
	}

	query = strings.ToLower(query)
	for _, s := range p.Sections() {
		for _, v := range s.Values() {
			if strings.Contains(strings.ToLower(v), query) {
				return true
			}
		}
	}
	return false
}

// Match applies every criterion of f to p.
func (f ProjectFilter) Match(p model.ProjectData) bool {
	if f.Category != "" && !strings.EqualFold(strings.TrimSpace(p.Overview.Category), f.Category) {
		return false
	}
	if f.Stage != "" && !strings.EqualFold(strings.TrimSpace(p.Overview.Stage), f.Stage) {
		return false
	}
	return FullTextSearch(p, strings.TrimSpace(f.Query))
}
