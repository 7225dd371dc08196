// Package platforms implements the social platform adapters. Each adapter
// exposes what it can do through capability interfaces: Poster for immediate
// posts and Scheduler for provider-side scheduled posts. The publish
// coordinator asks for capabilities instead of branching on platform names.
package platforms

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// Name identifies a social platform.
type Name string

// The supported platform enumeration. Twitter is recognized at the boundary
// but posting through this integration is unsupported.
const (
	Facebook  Name = "facebook"
	Instagram Name = "instagram"
	LinkedIn  Name = "linkedin"
	Twitter   Name = "twitter"
)

// ParseName parses a platform name case-insensitively.
func ParseName(s string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case Facebook:
		return Facebook, nil
	case Instagram:
		return Instagram, nil
	case LinkedIn:
		return LinkedIn, nil
	case Twitter:
		return Twitter, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// ParseNames parses a list of platform names, preserving order and dropping
// duplicates. An empty result is the caller's validation problem.
func ParseNames(raw []string) ([]Name, error) {
	seen := make(map[Name]bool, len(raw))
	names := make([]Name, 0, len(raw))
	for _, s := range raw {
		name, err := ParseName(s)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// PostResult carries the provider-side identifier of a created post.
type PostResult struct {
	PostID string
}

// Poster is the immediate-post capability.
type Poster interface {
	// PostNow publishes text (and optionally an image by URL) immediately.
	PostNow(ctx context.Context, text, imageURL string) (PostResult, error)
}

// Scheduler is the provider-side scheduling capability.
type Scheduler interface {
	// Schedule stages a post for publication at the given UTC instant.
	Schedule(ctx context.Context, text, imageURL string, publishAt time.Time) (PostResult, error)
}

// Adapter is the common surface of every platform adapter.
type Adapter interface {
	// Name returns the platform this adapter posts to.
	Name() Name
	// Enabled reports whether the adapter has complete credentials.
	Enabled() bool
}

// Registry holds the configured platform adapters. Platforms without an
// adapter (twitter) are unsupported end to end.
type Registry struct {
	adapters map[Name]Adapter
}

// NewRegistry builds the adapter set from the process configuration. Adapters
// with incomplete credentials are registered disabled so a partial deployment
// still starts.
func NewRegistry(cfg *config.Config, client *http.Client, log logger.Logger) *Registry {
	return &Registry{
		adapters: map[Name]Adapter{
			Facebook:  NewFacebook(cfg.Facebook, client, log),
			Instagram: NewInstagram(cfg.Instagram, client, log),
			LinkedIn:  NewLinkedIn(cfg.LinkedIn, client, log),
		},
	}
}

// NewRegistryFromAdapters builds a registry from explicit adapters.
// Intended for tests.
func NewRegistryFromAdapters(adapters ...Adapter) *Registry {
	m := make(map[Name]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Registry{adapters: m}
}

// Get returns the adapter for a platform, if one exists.
func (r *Registry) Get(name Name) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}
