package vinwiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{name: "default base URL", baseURL: DefaultBaseURL},
		{name: "base URL without slash", baseURL: "http://localhost:8080"},
		{name: "empty base URL", baseURL: "", wantErr: true, errMsg: "base URL is required"},
		{name: "unsupported scheme", baseURL: "ftp://rest.vinwiki.com/", wantErr: true, errMsg: "http or https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(WithBaseURL(tt.baseURL))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.False(t, client.Authenticated())
			assert.True(t, strings.HasSuffix(client.Endpoints().Base(), "/"))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	stub := newStub().on(http.MethodPost, "auth/authenticate", authOK)
	client := newTestClient(t, stub)

	session, err := client.Authenticate(context.Background(), "user", "pass")
	require.NoError(t, err)

	assert.Equal(t, testToken, session.Token())
	assert.Equal(t, testUUID, session.Person().UUID)
	assert.Equal(t, "u", *session.Person().Username)
	assert.Equal(t, fixedNow, session.CreatedAt())
	assert.Same(t, session, client.Session())

	call := stub.lastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, DefaultBaseURL+"auth/authenticate", call.URL)
	assert.Empty(t, call.Bearer, "login must not send a bearer token")
	assert.Equal(t, "user", call.Fields.Get("login"))
	assert.Equal(t, "pass", call.Fields.Get("password"))
}

func TestAuthenticateFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		stubErr  error
		noLogin  bool
		wantKind Kind
		calls    int
	}{
		{
			name:     "rejected",
			body:     `{"status":"error"}`,
			wantKind: KindAuthenticationRejected,
			calls:    1,
		},
		{
			name:     "rejected with message",
			body:     `{"status":"error","message":"bad password"}`,
			wantKind: KindAuthenticationRejected,
			calls:    1,
		},
		{
			name:     "not json",
			body:     `<html>maintenance</html>`,
			wantKind: KindInvalidResponse,
			calls:    1,
		},
		{
			name:     "missing token",
			body:     `{"status":"ok","person":{"uuid":"u1"}}`,
			wantKind: KindInvalidToken,
			calls:    1,
		},
		{
			name:     "empty token",
			body:     `{"status":"ok","token":{"token":""},"person":{"uuid":"u1"}}`,
			wantKind: KindInvalidToken,
			calls:    1,
		},
		{
			name:     "missing person",
			body:     `{"status":"ok","token":{"token":"T"}}`,
			wantKind: KindInvalidPerson,
			calls:    1,
		},
		{
			name:     "empty person",
			body:     `{"status":"ok","token":{"token":"T"},"person":{}}`,
			wantKind: KindInvalidPerson,
			calls:    1,
		},
		{
			name:     "malformed person",
			body:     `{"status":"ok","token":{"token":"T"},"person":{"uuid":{"nested":true}}}`,
			wantKind: KindInvalidPerson,
			calls:    1,
		},
		{
			name:     "transport failure",
			stubErr:  errors.New("connection refused"),
			wantKind: KindTransport,
			calls:    1,
		},
		{
			name:     "empty username",
			noLogin:  true,
			wantKind: KindValidation,
			calls:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub().on(http.MethodPost, "auth/authenticate", tt.body)
			stub.err = tt.stubErr
			client := newTestClient(t, stub)

			username := "user"
			if tt.noLogin {
				username = ""
			}

			session, err := client.Authenticate(context.Background(), username, "pass")
			require.Error(t, err)
			assert.Nil(t, session)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Nil(t, client.Session(), "failed login must not leave a session")
			assert.Equal(t, tt.calls, stub.callCount())
		})
	}
}

func TestAuthenticateRejectedDetail(t *testing.T) {
	stub := newStub().on(http.MethodPost, "auth/authenticate", `{"status":"error","message":"bad password","code":401}`)
	client := newTestClient(t, stub)

	_, err := client.Authenticate(context.Background(), "user", "pass")
	require.ErrorIs(t, err, ErrAuthenticationRejected)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "error", statusErr.Status)
	assert.Equal(t, "bad password", statusErr.Message)
	assert.Equal(t, "401", statusErr.Code)
}

func TestFailedReauthenticationKeepsSession(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	before := client.Session()

	stub.on(http.MethodPost, "auth/authenticate", `{"status":"error"}`)
	_, err := client.Authenticate(context.Background(), "user", "wrong")
	require.ErrorIs(t, err, ErrAuthenticationRejected)
	assert.Same(t, before, client.Session())
}

func TestLogin(t *testing.T) {
	stub := newStub().on(http.MethodPost, "auth/authenticate", authOK)

	client, err := Login(context.Background(), "user", "pass", WithTransport(stub))
	require.NoError(t, err)
	assert.True(t, client.Authenticated())

	stub.on(http.MethodPost, "auth/authenticate", `{"status":"error"}`)
	client, err = Login(context.Background(), "user", "pass", WithTransport(stub))
	require.ErrorIs(t, err, ErrAuthenticationRejected)
	assert.Nil(t, client)
}

func TestSessionRequired(t *testing.T) {
	ctx := context.Background()
	ops := map[string]func(c *Client) error{
		"GetPersonProfile": func(c *Client) error { _, err := c.GetPersonProfile(ctx, "x"); return err },
		"UpdatePersonProfile": func(c *Client) error {
			bio := "hi"
			_, err := c.UpdatePersonProfile(ctx, "x", ProfileUpdate{Bio: &bio})
			return err
		},
		"GetNotificationCount": func(c *Client) error { _, err := c.GetNotificationCount(ctx); return err },
		"GetPersonFeed":        func(c *Client) error { _, err := c.GetPersonFeed(ctx, ""); return err },
		"GetPersonPosts":       func(c *Client) error { _, err := c.GetPersonPosts(ctx, "x"); return err },
		"GetRecentVins":        func(c *Client) error { _, err := c.GetRecentVins(ctx); return err },
		"PlateLookup":          func(c *Client) error { _, err := c.PlateLookup(ctx, "ABC123", "US", "MD"); return err },
		"GetVehicle":           func(c *Client) error { _, err := c.GetVehicle(ctx, testVIN); return err },
		"VehicleSearch":        func(c *Client) error { _, err := c.VehicleSearch(ctx, "2009 BMW 335i"); return err },
		"UpdateVehicle": func(c *Client) error {
			_, err := c.UpdateVehicle(ctx, testVIN, VehicleUpdate{Year: 2009, Make: "BMW", Model: "335i"})
			return err
		},
		"CreatePost": func(c *Client) error { _, err := c.CreatePost(ctx, testVIN, NewVehiclePost("hello")); return err },
		"DeletePost": func(c *Client) error { _, err := c.DeletePost(ctx, "p1"); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			stub := newStub()
			client := newTestClient(t, stub)

			err := op(client)
			require.ErrorIs(t, err, ErrSessionRequired)
			assert.Zero(t, stub.callCount(), "no network call without a session")
		})
	}
}

func TestVINValidation(t *testing.T) {
	ctx := context.Background()
	vins := []string{"", "1HGCM82633A00435", "1HGCM82633A0043521", strings.Repeat("A", 40)}

	for _, vin := range vins {
		t.Run(fmt.Sprintf("len_%d", len(vin)), func(t *testing.T) {
			stub := newStub()
			client := newAuthedClient(t, stub)

			vehicle, err := client.GetVehicle(ctx, vin)
			require.NoError(t, err)
			assert.Nil(t, vehicle)

			feed, err := client.GetVehicleFeed(ctx, vin)
			require.NoError(t, err)
			assert.Nil(t, feed)

			ok, err := client.UpdateVehicle(ctx, vin, VehicleUpdate{Year: 2009, Make: "BMW", Model: "335i"})
			require.NoError(t, err)
			assert.False(t, ok)

			post, err := client.CreatePost(ctx, vin, NewVehiclePost("hello"))
			require.NoError(t, err)
			assert.Nil(t, post)

			_, err = client.Strict().GetVehicle(ctx, vin)
			require.ErrorIs(t, err, ErrValidation)

			assert.Zero(t, stub.callCount())
		})
	}
}

func TestPlateLookupValidation(t *testing.T) {
	tests := []struct {
		name    string
		plate   string
		country string
		state   string
	}{
		{"empty plate", "", "US", "MD"},
		{"long plate", strings.Repeat("X", MaxPlateLength+1), "US", "MD"},
		{"empty state", "ABC123", "US", ""},
		{"long state", "ABC123", "US", "MDXX"},
		{"empty country", "ABC123", "", "MD"},
		{"long country", "ABC123", "USAX", "MD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			client := newAuthedClient(t, stub)

			lookup, err := client.PlateLookup(context.Background(), tt.plate, tt.country, tt.state)
			require.NoError(t, err)
			assert.Nil(t, lookup)
			assert.Zero(t, stub.callCount())
		})
	}
}

func TestPlateLookup(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodPost, "vehicle/plate_lookup",
		`{"status":"ok","plate_lookup":{"description":"2009 BMW 335i","make":"BMW","model":"335i","year":2009,"vin":"WBAPL33579A406957"}}`)

	lookup, err := client.PlateLookup(context.Background(), "ABC123", "US", "MD")
	require.NoError(t, err)
	require.NotNil(t, lookup)
	assert.Equal(t, testVIN, lookup.VIN)
	assert.Equal(t, "2009", lookup.Year)

	call := stub.lastCall(t)
	assert.Equal(t, testToken, call.Bearer)
	assert.Equal(t, "ABC123", call.Fields.Get("plate"))
	assert.Equal(t, "US", call.Fields.Get("country"))
	assert.Equal(t, "MD", call.Fields.Get("state"))
}

func TestVehicleSearch(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodPost, "vehicle/search",
		`{"status":"ok","results":{"count":1,"term":"2009 BMW 335i","vehicles":[{"vin":"WBAPL33579A406957","make":"BMW"}]}}`)

	result, err := client.VehicleSearch(context.Background(), "2009 BMW 335i")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, "2009 BMW 335i", result.Term)
	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, testVIN, result.Vehicles[0].VIN)
	assert.Equal(t, "BMW", *result.Vehicles[0].Make)
	assert.Equal(t, "2009 BMW 335i", stub.lastCall(t).Fields.Get("query"))
}

func TestVehicleSearchShortQuery(t *testing.T) {
	for _, query := range []string{"", "a", "ab"} {
		stub := newStub()
		client := newAuthedClient(t, stub)

		result, err := client.VehicleSearch(context.Background(), query)
		require.NoError(t, err)
		assert.Nil(t, result)

		_, err = client.Strict().VehicleSearch(context.Background(), query)
		require.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, stub.callCount())
	}
}

func TestGetVehicle(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodGet, "vehicle/vin/"+testVIN,
		`{"status":"ok","vehicle":{"vin":"WBAPL33579A406957","year":"2009","make":"BMW","model":"335i","post_count":4,"decoder_fail":false}}`)

	vehicle, err := client.GetVehicle(context.Background(), testVIN)
	require.NoError(t, err)
	require.NotNil(t, vehicle)
	assert.Equal(t, "2009 BMW 335i", vehicle.Name())
	assert.Equal(t, int64(4), *vehicle.PostCount)
	assert.False(t, *vehicle.DecoderFail)
	assert.Nil(t, vehicle.Trim)
	assert.Equal(t, testToken, stub.lastCall(t).Bearer)
}

func TestRemoteFailureCollapses(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		stubErr  error
		wantKind Kind
	}{
		{name: "non-ok status", body: `{"status":"error","message":"not found"}`, wantKind: KindRemoteStatus},
		{name: "missing payload", body: `{"status":"ok"}`, wantKind: KindInvalidResponse},
		{name: "payload not an object", body: `{"status":"ok","vehicle":[1,2]}`, wantKind: KindInvalidResponse},
		{name: "garbage", body: `nope`, wantKind: KindInvalidResponse},
		{name: "schema mismatch", body: `{"status":"ok","vehicle":{"vin":["x"]}}`, wantKind: KindHydration},
		{name: "http error", stubErr: &APIError{StatusCode: 500}, wantKind: KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			client := newAuthedClient(t, stub)
			stub.on(http.MethodGet, "vehicle/vin/"+testVIN, tt.body)
			stub.err = tt.stubErr

			vehicle, err := client.GetVehicle(context.Background(), testVIN)
			require.NoError(t, err)
			assert.Nil(t, vehicle)

			vehicle, err = client.Strict().GetVehicle(context.Background(), testVIN)
			require.Error(t, err)
			assert.Nil(t, vehicle)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestIdentifierDefaulting(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodGet, "person/feed/"+testUUID, `{"status":"ok","feed":[]}`)

	other := uuid.NewString()
	stub.on(http.MethodGet, "person/feed/"+other, `{"status":"ok","feed":[{"uuid":"p1","post_text":"hi"}]}`)

	feed, err := client.GetPersonFeed(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Empty(t, feed.Feed)
	assert.Equal(t, DefaultBaseURL+"person/feed/"+testUUID, stub.lastCall(t).URL)

	feed, err = client.GetPersonFeed(context.Background(), other)
	require.NoError(t, err)
	require.Len(t, feed.Feed, 1)
	assert.Equal(t, "hi", feed.Feed[0].PostText)
}

func TestPersonUnavailable(t *testing.T) {
	stub := newStub().on(http.MethodPost, "auth/authenticate",
		`{"status":"ok","token":{"token":"T"},"person":{"username":"nouuid"}}`)
	client := newTestClient(t, stub)
	_, err := client.Authenticate(context.Background(), "user", "pass")
	require.NoError(t, err)

	_, err = client.GetPersonPosts(context.Background(), "")
	require.ErrorIs(t, err, ErrPersonUnavailable)
	assert.Equal(t, 1, stub.callCount(), "only the login call is made")
}

func TestGetPersonProfile(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)

	self, err := client.GetPersonProfile(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, self)
	assert.Equal(t, testUUID, self.UUID)
	assert.Zero(t, stub.callCount(), "own profile comes from the session")

	stub.on(http.MethodGet, "person/profile/u2",
		`{"status":"ok","profile":{"uuid":"u2","display_name":"Doug","follower_count":12,"email":null}}`)
	profile, err := client.GetPersonProfile(context.Background(), "u2")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Doug", profile.GetDisplayName())
	assert.Equal(t, int64(12), profile.FollowerCount)
	assert.Nil(t, profile.Email)
}

func TestUpdatePersonProfile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "inline person", body: `{"status":"ok","uuid":"u1","bio":"new bio"}`},
		{name: "wrapped person", body: `{"status":"ok","person":{"uuid":"u1","bio":"new bio"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			client := newAuthedClient(t, stub)
			stub.on(http.MethodPost, "person/id/"+testUUID, tt.body)

			bio := "new bio"
			person, err := client.UpdatePersonProfile(context.Background(), "", ProfileUpdate{Bio: &bio})
			require.NoError(t, err)
			require.NotNil(t, person)
			assert.Equal(t, "new bio", person.Bio)

			call := stub.lastCall(t)
			assert.Equal(t, "new bio", call.Fields.Get("bio"))
			assert.Len(t, call.Fields, 1)
		})
	}

	t.Run("empty update", func(t *testing.T) {
		stub := newStub()
		client := newAuthedClient(t, stub)

		_, err := client.Strict().UpdatePersonProfile(context.Background(), "", ProfileUpdate{})
		require.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, stub.callCount())
	})
}

func TestGetNotificationCount(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodGet, "person/notification_count/me", `{"status":"ok","notification_count":{"unseen":3}}`)

	count, err := client.GetNotificationCount(context.Background())
	require.NoError(t, err)
	counts, ok := count.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3", fmt.Sprint(counts["unseen"]))
}

func TestGetPersonPostsAndRecentVins(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodGet, "person/posts/"+testUUID,
		`{"status":"ok","posts":[{"uuid":"a","mileage":1000},{"uuid":"b","mileage":null}]}`)
	stub.on(http.MethodGet, "person/recent_vins",
		`{"status":"ok","recent_vins":[{"vin":"WBAPL33579A406957"},{"vin":"1HGCM82633A004352"}]}`)

	posts, err := client.GetPersonPosts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, posts.Posts, 2)
	assert.Equal(t, "a", posts.Posts[0].UUID)
	assert.Equal(t, int64(1000), *posts.Posts[0].Mileage)
	assert.Nil(t, posts.Posts[1].Mileage)

	recent, err := client.GetRecentVins(context.Background())
	require.NoError(t, err)
	require.Len(t, recent.RecentVins, 2)
	assert.Equal(t, "1HGCM82633A004352", recent.RecentVins[1].VIN)
}

func TestGetPersonFeedRequiresFeedKey(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodGet, "person/feed/"+testUUID, `{"status":"ok"}`)

	_, err := client.Strict().GetPersonFeed(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetVehicleFeedWithoutSession(t *testing.T) {
	stub := newStub().on(http.MethodGet, "vehicle/feed/"+testVIN,
		`{"status":"ok","vehicle":{"vin":"WBAPL33579A406957"},"feed":[{"uuid":"p1","type":"generic","person":{"uuid":"u9"},"vehicle":{"vin":"WBAPL33579A406957"}}]}`)
	client := newTestClient(t, stub)

	feed, err := client.GetVehicleFeed(context.Background(), testVIN)
	require.NoError(t, err)
	require.NotNil(t, feed)
	require.Len(t, feed.Feed, 1)
	assert.Equal(t, "u9", feed.Feed[0].Person.UUID)
	assert.Equal(t, testVIN, feed.Vehicle.VIN)
	assert.Empty(t, stub.lastCall(t).Bearer)
}

func TestUpdateVehicle(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodPost, "vehicle/vin/"+testVIN, `{"status":"ok"}`)

	ok, err := client.UpdateVehicle(context.Background(), testVIN, VehicleUpdate{Year: 2009, Make: "BMW", Model: "335i", Trim: "xDrive"})
	require.NoError(t, err)
	assert.True(t, ok)

	call := stub.lastCall(t)
	assert.Equal(t, "2009", call.Fields.Get("year"))
	assert.Equal(t, "xDrive", call.Fields.Get("trim"))

	ok, err = client.UpdateVehicle(context.Background(), testVIN, VehicleUpdate{Make: "BMW"})
	require.NoError(t, err)
	assert.False(t, ok, "incomplete update is rejected locally")
	assert.Equal(t, 1, stub.callCount())
}

func TestCreatePost(t *testing.T) {
	stub := newStub()
	client := newAuthedClient(t, stub)
	stub.on(http.MethodPost, "vehicle/post/"+testVIN,
		`{"status":"ok","post":{"uuid":"p1","post_text":"oil change & rotation","mileage":43000,"comment_count":0}}`)

	post := NewVehiclePost("oil change & rotation")
	post.Mileage = 43000

	created, err := client.CreatePost(context.Background(), testVIN, post)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "p1", created.UUID)
	assert.Equal(t, "0", created.CommentCount)

	call := stub.lastCall(t)
	assert.Equal(t, "oil change & rotation", call.Fields.Get("text"))
	assert.Equal(t, "43000", call.Fields.Get("mileage"))
	assert.Equal(t, "2023-03-12T15:04:05.000Z", call.Fields.Get("event_date"))
	assert.Equal(t, DefaultPostClass, call.Fields.Get("class_name"))
}

func TestDeletePost(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "deleted", body: `{"status":"ok","result":"POST_DELETED"}`, want: true},
		{name: "not deleted", body: `{"status":"ok","result":"NOT_FOUND"}`, want: false},
		{name: "rejected", body: `{"status":"error"}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			client := newAuthedClient(t, stub)
			stub.on(http.MethodPost, "post/delete/p1", tt.body)

			ok, err := client.DeletePost(context.Background(), "p1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, testToken, stub.lastCall(t).Bearer)
		})
	}

	t.Run("empty uuid", func(t *testing.T) {
		stub := newStub()
		client := newAuthedClient(t, stub)

		ok, err := client.DeletePost(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, stub.callCount())
	})
}
