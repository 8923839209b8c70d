package vinwiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

// Client represents a VINwiki API client
type Client struct {
	endpoints *Endpoints
	transport Transport
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	session *Session
}

// NewClient creates an unauthenticated client
func NewClient(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	endpoints, err := NewEndpoints(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid VINwiki configuration: %w", err)
	}

	transport := o.transport
	if transport == nil {
		httpClient := o.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: o.timeout}
		}
		transport = NewHTTPTransport(httpClient, o.userAgent, o.logger)
	}

	return &Client{
		endpoints: endpoints,
		transport: transport,
		logger:    o.logger,
		now:       o.now,
	}, nil
}

// Login creates a client and authenticates it
func Login(ctx context.Context, username, password string, opts ...Option) (*Client, error) {
	client, err := NewClient(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := client.Authenticate(ctx, username, password); err != nil {
		return nil, err
	}
	return client, nil
}

// Endpoints returns the endpoint resolver in use
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

// Session returns the current session, or nil before Authenticate succeeds
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Authenticated reports whether the client holds a session
func (c *Client) Authenticated() bool {
	return c.Session() != nil
}

// Authenticate logs in and replaces the client's session. A failed login
// leaves any previous session in place.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	const op = "Authenticate"

	if err := checkInput(op, validation.Errors{
		"login":    validation.Validate(username, requiredRule...),
		"password": validation.Validate(password, requiredRule...),
	}); err != nil {
		return nil, err
	}

	body, err := c.send(ctx, op, http.MethodPost, EndpointAuthenticate, "", url.Values{
		"login":    {username},
		"password": {password},
	}, "")
	if err != nil {
		return nil, err
	}

	env, err := parseEnvelope(op, body)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindRemoteStatus {
			return nil, newError(KindAuthenticationRejected, op, ErrAuthenticationRejected.Message, e.Err)
		}
		return nil, err
	}

	token := ""
	if tok, ok := env["token"].(map[string]any); ok {
		token, _ = tok["token"].(string)
	}
	if token == "" {
		return nil, newError(KindInvalidToken, op, ErrInvalidToken.Message, nil)
	}

	personObj, ok := env["person"].(map[string]any)
	if !ok || len(personObj) == 0 {
		return nil, newError(KindInvalidPerson, op, ErrInvalidPerson.Message, nil)
	}
	person, err := PersonSchema.Hydrate(personObj)
	if err != nil {
		return nil, newError(KindInvalidPerson, op, ErrInvalidPerson.Message, err)
	}

	session := &Session{
		token:     token,
		person:    *person,
		createdAt: c.now(),
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.logger.Info().
		Str("uuid", person.UUID).
		Str("person", person.GetDisplayName()).
		Msg("Authenticated with VINwiki")

	return session, nil
}

// requireSession fails fast when no session is held
func (c *Client) requireSession(op string) (*Session, error) {
	session := c.Session()
	if session == nil {
		return nil, newError(KindSessionRequired, op, ErrSessionRequired.Message, nil)
	}
	return session, nil
}

// send resolves the endpoint and performs one round trip. Transport
// failures are classified as KindTransport.
func (c *Client) send(ctx context.Context, op, method string, name Endpoint, suffix string, fields url.Values, bearer string) ([]byte, error) {
	endpoint, err := c.endpoints.Resolve(name, suffix)
	if err != nil {
		return nil, newError(KindValidation, op, "cannot build request URL", err)
	}

	body, err := c.transport.Do(ctx, Request{
		Method: method,
		URL:    endpoint,
		Fields: fields,
		Bearer: bearer,
	})
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, newError(KindTransport, op, ErrTransport.Message, err)
	}

	return body, nil
}

// call is send followed by envelope validation
func (c *Client) call(ctx context.Context, op, method string, name Endpoint, suffix string, fields url.Values, bearer string) (envelope, error) {
	body, err := c.send(ctx, op, method, name, suffix, fields, bearer)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(op, body)
}

// hydratePayload hydrates the object at key (the whole envelope when key
// is empty) against schema.
func hydratePayload[T any](op string, env envelope, key string, schema *Schema[T]) (*T, error) {
	obj, err := env.object(op, key)
	if err != nil {
		return nil, err
	}
	rec, err := schema.Hydrate(obj)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Op = op
		}
		return nil, err
	}
	return rec, nil
}

// Strict returns the view of the client that reports every failure as a
// typed error instead of an absent result.
func (c *Client) Strict() *Strict {
	return &Strict{c: c}
}

// absent collapses a per-call failure into an absent result. Session
// errors are still returned because the caller has to authenticate first.
func (c *Client) absent(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.IsSessionError() {
		return err
	}
	c.logger.Debug().Err(err).Str("op", op).Str("kind", KindOf(err).String()).Msg("VINwiki call returned no result")
	return nil
}

// GetPersonProfile returns the profile for uuid, or the session's own
// profile without a network call when uuid is empty.
func (c *Client) GetPersonProfile(ctx context.Context, uuid string) (*Person, error) {
	p, err := c.Strict().GetPersonProfile(ctx, uuid)
	return p, c.absent("GetPersonProfile", err)
}

// UpdatePersonProfile updates the profile of uuid (the session's own
// profile when empty) and returns the updated person.
func (c *Client) UpdatePersonProfile(ctx context.Context, uuid string, update ProfileUpdate) (*Person, error) {
	p, err := c.Strict().UpdatePersonProfile(ctx, uuid, update)
	return p, c.absent("UpdatePersonProfile", err)
}

// GetNotificationCount returns the session's notification counters
func (c *Client) GetNotificationCount(ctx context.Context) (NotificationCount, error) {
	n, err := c.Strict().GetNotificationCount(ctx)
	return n, c.absent("GetNotificationCount", err)
}

// GetPersonFeed returns the feed of uuid, or the session's own feed
func (c *Client) GetPersonFeed(ctx context.Context, uuid string) (*PersonFeed, error) {
	f, err := c.Strict().GetPersonFeed(ctx, uuid)
	return f, c.absent("GetPersonFeed", err)
}

// GetPersonPosts returns the posts of uuid, or the session's own posts
func (c *Client) GetPersonPosts(ctx context.Context, uuid string) (*PersonPosts, error) {
	p, err := c.Strict().GetPersonPosts(ctx, uuid)
	return p, c.absent("GetPersonPosts", err)
}

// GetRecentVins returns the vehicles the session recently interacted with
func (c *Client) GetRecentVins(ctx context.Context) (*RecentVins, error) {
	r, err := c.Strict().GetRecentVins(ctx)
	return r, c.absent("GetRecentVins", err)
}

// PlateLookup decodes a license plate into a vehicle
func (c *Client) PlateLookup(ctx context.Context, plate, country, state string) (*PlateLookup, error) {
	p, err := c.Strict().PlateLookup(ctx, plate, country, state)
	return p, c.absent("PlateLookup", err)
}

// GetVehicleFeed returns the public feed of a vehicle. No session is needed.
func (c *Client) GetVehicleFeed(ctx context.Context, vin string) (*VehicleFeed, error) {
	f, err := c.Strict().GetVehicleFeed(ctx, vin)
	return f, c.absent("GetVehicleFeed", err)
}

// GetVehicle returns a vehicle by VIN
func (c *Client) GetVehicle(ctx context.Context, vin string) (*Vehicle, error) {
	v, err := c.Strict().GetVehicle(ctx, vin)
	return v, c.absent("GetVehicle", err)
}

// VehicleSearch searches vehicles by VIN, year, make or model
func (c *Client) VehicleSearch(ctx context.Context, query string) (*VehicleSearch, error) {
	s, err := c.Strict().VehicleSearch(ctx, query)
	return s, c.absent("VehicleSearch", err)
}

// UpdateVehicle corrects a vehicle's year, make, model and trim
func (c *Client) UpdateVehicle(ctx context.Context, vin string, update VehicleUpdate) (bool, error) {
	ok, err := c.Strict().UpdateVehicle(ctx, vin, update)
	return ok, c.absent("UpdateVehicle", err)
}

// CreatePost adds a post to a vehicle's feed
func (c *Client) CreatePost(ctx context.Context, vin string, post VehiclePost) (*FeedPost, error) {
	p, err := c.Strict().CreatePost(ctx, vin, post)
	return p, c.absent("CreatePost", err)
}

// DeletePost deletes one of the session's posts
func (c *Client) DeletePost(ctx context.Context, uuid string) (bool, error) {
	ok, err := c.Strict().DeletePost(ctx, uuid)
	return ok, c.absent("DeletePost", err)
}
