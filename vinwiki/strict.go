package vinwiki

import (
	"context"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const postDeleted = "POST_DELETED"

// Strict exposes the client's operations with every failure reported as
// a typed *Error. Obtain one with Client.Strict.
type Strict struct {
	c *Client
}

// GetPersonProfile returns the profile for uuid, or the session's own
// profile without a network call when uuid is empty.
func (s *Strict) GetPersonProfile(ctx context.Context, uuid string) (*Person, error) {
	const op = "GetPersonProfile"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	if uuid == "" {
		person := session.Person()
		return &person, nil
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointPersonProfile, uuid, nil, session.token)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "profile", PersonSchema)
}

// UpdatePersonProfile updates the profile of uuid, defaulting to the
// session's own profile.
func (s *Strict) UpdatePersonProfile(ctx context.Context, uuid string, update ProfileUpdate) (*Person, error) {
	const op = "UpdatePersonProfile"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	id, err := resolveIdentifier(op, uuid, session)
	if err != nil {
		return nil, err
	}
	if err := checkInput(op, validation.Errors{"profile": update.Validate()}); err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodPost, EndpointUpdatePerson, id, update.form(), session.token)
	if err != nil {
		return nil, err
	}

	// Some deployments wrap the updated person, others return it inline.
	key := ""
	if _, ok := env["person"].(map[string]any); ok {
		key = "person"
	}
	return hydratePayload(op, env, key, PersonSchema)
}

// GetNotificationCount returns the session's notification counters
func (s *Strict) GetNotificationCount(ctx context.Context) (NotificationCount, error) {
	const op = "GetNotificationCount"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointNotificationCount, "", nil, session.token)
	if err != nil {
		return nil, err
	}
	count, err := env.payload(op, "notification_count")
	if err != nil {
		return nil, err
	}
	return NotificationCount(count), nil
}

// GetPersonFeed returns the feed of uuid, defaulting to the session's own
func (s *Strict) GetPersonFeed(ctx context.Context, uuid string) (*PersonFeed, error) {
	const op = "GetPersonFeed"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	id, err := resolveIdentifier(op, uuid, session)
	if err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointPersonFeed, id, nil, session.token)
	if err != nil {
		return nil, err
	}
	if err := env.require(op, "feed"); err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "", PersonFeedSchema)
}

// GetPersonPosts returns the posts of uuid, defaulting to the session's own
func (s *Strict) GetPersonPosts(ctx context.Context, uuid string) (*PersonPosts, error) {
	const op = "GetPersonPosts"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	id, err := resolveIdentifier(op, uuid, session)
	if err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointPersonPosts, id, nil, session.token)
	if err != nil {
		return nil, err
	}
	if err := env.require(op, "posts"); err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "", PersonPostsSchema)
}

// GetRecentVins returns the vehicles the session recently interacted with
func (s *Strict) GetRecentVins(ctx context.Context) (*RecentVins, error) {
	const op = "GetRecentVins"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointRecentVins, "", nil, session.token)
	if err != nil {
		return nil, err
	}
	if err := env.require(op, "recent_vins"); err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "", RecentVinsSchema)
}

// PlateLookup decodes a license plate into a vehicle
func (s *Strict) PlateLookup(ctx context.Context, plate, country, state string) (*PlateLookup, error) {
	const op = "PlateLookup"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	if err := checkInput(op, validation.Errors{
		"plate":   validation.Validate(plate, plateRules...),
		"country": validation.Validate(country, regionRules...),
		"state":   validation.Validate(state, regionRules...),
	}); err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodPost, EndpointPlateLookup, "", url.Values{
		"plate":   {plate},
		"country": {country},
		"state":   {state},
	}, session.token)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "plate_lookup", PlateLookupSchema)
}

// GetVehicleFeed returns the public feed of a vehicle. The bearer token is
// sent when a session exists but none is required.
func (s *Strict) GetVehicleFeed(ctx context.Context, vin string) (*VehicleFeed, error) {
	const op = "GetVehicleFeed"

	if err := checkVIN(op, vin); err != nil {
		return nil, err
	}

	bearer := ""
	if session := s.c.Session(); session != nil {
		bearer = session.token
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointFeed, vin, nil, bearer)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "", VehicleFeedSchema)
}

// GetVehicle returns a vehicle by VIN
func (s *Strict) GetVehicle(ctx context.Context, vin string) (*Vehicle, error) {
	const op = "GetVehicle"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	if err := checkVIN(op, vin); err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodGet, EndpointVehicle, vin, nil, session.token)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "vehicle", VehicleSchema)
}

// VehicleSearch searches vehicles by VIN, year, make or model
func (s *Strict) VehicleSearch(ctx context.Context, query string) (*VehicleSearch, error) {
	const op = "VehicleSearch"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	if err := checkInput(op, validation.Errors{
		"query": validation.Validate(query, queryRules...),
	}); err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodPost, EndpointVehicleSearch, "", url.Values{
		"query": {query},
	}, session.token)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "results", VehicleSearchSchema)
}

// UpdateVehicle corrects a vehicle's year, make, model and trim. Only the
// envelope status is checked.
func (s *Strict) UpdateVehicle(ctx context.Context, vin string, update VehicleUpdate) (bool, error) {
	const op = "UpdateVehicle"

	session, err := s.c.requireSession(op)
	if err != nil {
		return false, err
	}
	if err := checkInput(op, validation.Errors{
		"vin":     validation.Validate(vin, vinRules...),
		"vehicle": update.Validate(),
	}); err != nil {
		return false, err
	}

	if _, err := s.c.call(ctx, op, http.MethodPost, EndpointUpdateVehicle, vin, update.form(), session.token); err != nil {
		return false, err
	}
	return true, nil
}

// CreatePost adds a post to a vehicle's feed and returns it as VINwiki
// stored it.
func (s *Strict) CreatePost(ctx context.Context, vin string, post VehiclePost) (*FeedPost, error) {
	const op = "CreatePost"

	session, err := s.c.requireSession(op)
	if err != nil {
		return nil, err
	}
	if err := checkInput(op, validation.Errors{
		"vin":  validation.Validate(vin, vinRules...),
		"post": post.Validate(),
	}); err != nil {
		return nil, err
	}

	env, err := s.c.call(ctx, op, http.MethodPost, EndpointVehiclePost, vin, post.form(s.c.now()), session.token)
	if err != nil {
		return nil, err
	}
	return hydratePayload(op, env, "post", FeedPostSchema)
}

// DeletePost deletes a post by UUID. It succeeds only when VINwiki
// confirms the deletion.
func (s *Strict) DeletePost(ctx context.Context, uuid string) (bool, error) {
	const op = "DeletePost"

	session, err := s.c.requireSession(op)
	if err != nil {
		return false, err
	}
	if err := checkInput(op, validation.Errors{
		"uuid": validation.Validate(uuid, requiredRule...),
	}); err != nil {
		return false, err
	}

	env, err := s.c.call(ctx, op, http.MethodPost, EndpointPostDelete, uuid, url.Values{}, session.token)
	if err != nil {
		return false, err
	}
	if result := env.str("result"); result != postDeleted {
		return false, newError(KindInvalidResponse, op, "post was not deleted", &StatusError{Status: statusOK, Message: result})
	}
	return true, nil
}
