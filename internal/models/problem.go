package models

import "strings"

// Problem is one entry of the Codeforces problemset. Rating is nil for
// unrated problems.
type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// HasTag reports whether the problem carries the tag, ignoring case.
func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
