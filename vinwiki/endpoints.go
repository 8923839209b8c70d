package vinwiki

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public VINwiki REST API
const DefaultBaseURL = "https://rest.vinwiki.com/"

// Endpoint is the logical name of a VINwiki API operation
type Endpoint string

// Known endpoints
const (
	EndpointAuthenticate      Endpoint = "authenticate"
	EndpointPlateLookup       Endpoint = "plate_lookup"
	EndpointUpdateVehicle     Endpoint = "update_vehicle"
	EndpointUpdatePerson      Endpoint = "update_person"
	EndpointVehiclePost       Endpoint = "vehicle_post"
	EndpointPostDelete        Endpoint = "post_delete"
	EndpointVehicleSearch     Endpoint = "vehicle_search"
	EndpointVehicle           Endpoint = "vehicle"
	EndpointFeed              Endpoint = "feed"
	EndpointNotificationCount Endpoint = "notification_count"
	EndpointPersonFeed        Endpoint = "person_feed"
	EndpointPersonProfile     Endpoint = "person_profile"
	EndpointPersonPosts       Endpoint = "person_posts"
	EndpointRecentVins        Endpoint = "recent_vins"
)

// SuffixStyle says what, if anything, is appended to an endpoint path
type SuffixStyle int

const (
	SuffixNone SuffixStyle = iota
	SuffixVIN
	SuffixUUID
)

type route struct {
	path   string
	suffix SuffixStyle
}

// routes is read-only after package initialization
var routes = map[Endpoint]route{
	EndpointAuthenticate:      {"auth/authenticate", SuffixNone},
	EndpointPlateLookup:       {"vehicle/plate_lookup", SuffixNone},
	EndpointUpdateVehicle:     {"vehicle/vin/", SuffixVIN},
	EndpointUpdatePerson:      {"person/id/", SuffixUUID},
	EndpointVehiclePost:       {"vehicle/post/", SuffixVIN},
	EndpointPostDelete:        {"post/delete/", SuffixUUID},
	EndpointVehicleSearch:     {"vehicle/search", SuffixNone},
	EndpointVehicle:           {"vehicle/vin/", SuffixVIN},
	EndpointFeed:              {"vehicle/feed/", SuffixVIN},
	EndpointNotificationCount: {"person/notification_count/me", SuffixNone},
	EndpointPersonFeed:        {"person/feed/", SuffixUUID},
	EndpointPersonProfile:     {"person/profile/", SuffixUUID},
	EndpointPersonPosts:       {"person/posts/", SuffixUUID},
	EndpointRecentVins:        {"person/recent_vins", SuffixNone},
}

// Endpoints resolves logical endpoint names against a base URL. It is
// immutable once built.
type Endpoints struct {
	base string
}

// NewEndpoints validates baseURL and returns a resolver for it
func NewEndpoints(baseURL string) (*Endpoints, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL must use http or https scheme, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base URL has no host")
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Endpoints{base: baseURL}, nil
}

// Base returns the base URL, always with a trailing slash
func (e *Endpoints) Base() string {
	return e.base
}

// Suffix returns the suffix style of name
func (e *Endpoints) Suffix(name Endpoint) (SuffixStyle, bool) {
	r, ok := routes[name]
	return r.suffix, ok
}

// Resolve returns the URL for name with suffix appended. Suffixed endpoints
// require a non-empty suffix and the others reject one.
func (e *Endpoints) Resolve(name Endpoint, suffix string) (string, error) {
	r, ok := routes[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}

	switch {
	case r.suffix == SuffixNone && suffix != "":
		return "", fmt.Errorf("endpoint %q takes no path suffix", name)
	case r.suffix != SuffixNone && suffix == "":
		return "", fmt.Errorf("endpoint %q requires a path suffix", name)
	}

	return e.base + r.path + url.PathEscape(suffix), nil
}
