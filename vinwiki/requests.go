package vinwiki

import (
	"net/url"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// PostDateLayout is the event_date format VINwiki expects on new posts
	PostDateLayout = "2006-01-02T15:04:05.000Z"
	// DefaultPostClient identifies this library as the author client of posts
	DefaultPostClient = "vinwiki-go"
	// DefaultPostClass is the only post class VINwiki accepts from clients
	DefaultPostClass = "generic"
)

// VehiclePost is a new post on a vehicle's feed
type VehiclePost struct {
	ClassName string
	Client    string
	// EventDate defaults to the time the post is sent
	EventDate time.Time
	Locale    string
	Mileage   int64
	Text      string
}

// NewVehiclePost returns a post with the default class and client
func NewVehiclePost(text string) VehiclePost {
	return VehiclePost{
		ClassName: DefaultPostClass,
		Client:    DefaultPostClient,
		Text:      text,
	}
}

// Validate checks the post can be sent
func (p VehiclePost) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Text, validation.Required),
		validation.Field(&p.Mileage, validation.Min(int64(0))),
	)
}

func (p VehiclePost) form(now time.Time) url.Values {
	className := p.ClassName
	if className == "" {
		className = DefaultPostClass
	}
	client := p.Client
	if client == "" {
		client = DefaultPostClient
	}
	eventDate := p.EventDate
	if eventDate.IsZero() {
		eventDate = now
	}

	return url.Values{
		"class_name": {className},
		"client":     {client},
		"event_date": {eventDate.UTC().Format(PostDateLayout)},
		"locale":     {p.Locale},
		"mileage":    {strconv.FormatInt(p.Mileage, 10)},
		"text":       {p.Text},
	}
}

// VehicleUpdate corrects the decoded identity of a vehicle
type VehicleUpdate struct {
	Year  int
	Make  string
	Model string
	Trim  string
}

// Validate checks the update can be sent
func (u VehicleUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Year, validation.Required, validation.Min(1886)),
		validation.Field(&u.Make, validation.Required),
		validation.Field(&u.Model, validation.Required),
	)
}

func (u VehicleUpdate) form() url.Values {
	return url.Values{
		"year":  {strconv.Itoa(u.Year)},
		"make":  {u.Make},
		"model": {u.Model},
		"trim":  {u.Trim},
	}
}

// ProfileUpdate holds the editable profile fields. Only non-nil fields are
// sent.
type ProfileUpdate struct {
	Bio             *string
	DisplayName     *string
	Email           *string
	FirstName       *string
	LastName        *string
	Location        *string
	SocialFacebook  *string
	SocialInstagram *string
	SocialLinkedIn  *string
	SocialTwitter   *string
	WebsiteURL      *string
}

// Validate checks at least one field is set
func (u ProfileUpdate) Validate() error {
	if len(u.form()) == 0 {
		return validation.NewError("validation_profile_empty", "no profile fields to update")
	}
	return nil
}

func (u ProfileUpdate) form() url.Values {
	form := url.Values{}
	set := func(key string, v *string) {
		if v != nil {
			form.Set(key, *v)
		}
	}
	set("bio", u.Bio)
	set("display_name", u.DisplayName)
	set("email", u.Email)
	set("first_name", u.FirstName)
	set("last_name", u.LastName)
	set("location", u.Location)
	set("social_facebook", u.SocialFacebook)
	set("social_instagram", u.SocialInstagram)
	set("social_linkedin", u.SocialLinkedIn)
	set("social_twitter", u.SocialTwitter)
	set("website_url", u.WebsiteURL)
	return form
}
