package model

import (
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Release represents one published release entry from the upstream listing
type Release struct {
	Tag         string    // Release tag name, e.g. holochain-0.3.0
	PublishedAt time.Time // Zero if the release has not been published (draft)
}

// Policy decides which releases qualify for selection
type Policy struct {
	TagPrefix string
	Window    time.Duration
}

// NewPolicy builds a Policy from a tag prefix and a recency window in hours
func NewPolicy(tagPrefix string, windowHours float64) (Policy, error) {
	p := Policy{
		TagPrefix: tagPrefix,
		Window:    time.Duration(windowHours * float64(time.Hour)),
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks that the policy can be used for selection
func (p Policy) Validate() error {
	if p.TagPrefix == "" {
		return goerr.New("tag prefix must not be empty")
	}
	if p.Window < 0 {
		return goerr.New("recency window must not be negative",
			goerr.V("window", p.Window.String()))
	}
	return nil
}

// Matches reports whether a single release satisfies both the prefix and
// the recency predicate. The window boundary is inclusive.
func (p Policy) Matches(r *Release, now time.Time) bool {
	if r == nil || !strings.HasPrefix(r.Tag, p.TagPrefix) {
		return false
	}
	return !r.PublishedAt.Before(now.Add(-p.Window))
}

// Select returns the tag of the most recently published qualifying release.
// Qualifying releases are ordered by PublishedAt descending; releases with
// the same timestamp keep their input order. The second return value is
// false when nothing qualifies.
func (p Policy) Select(releases []*Release, now time.Time) (string, bool) {
	var matched []*Release
	for _, r := range releases {
		if p.Matches(r, now) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return "", false
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PublishedAt.After(matched[j].PublishedAt)
	})

	return matched[0].Tag, true
}

// Selection is the outcome of selecting a release for a channel
type Selection struct {
	Channel string `json:"channel"`
	Tag     string `json:"tag,omitempty"`
	Found   bool   `json:"found"`
}
