package vinwiki

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Person represents a VINwiki user profile
type Person struct {
	Avatar                any     `json:"avatar"`
	Bio                   string  `json:"bio"`
	DisplayName           string  `json:"display_name"`
	Email                 *string `json:"email,omitempty"`
	FirstName             *string `json:"first_name,omitempty"`
	FollowerCount         int64   `json:"follower_count"`
	FollowingCount        int64   `json:"following_count"`
	FollowingVehicleCount int64   `json:"following_vehicle_count"`
	ID                    int64   `json:"id"`
	LastName              *string `json:"last_name,omitempty"`
	Location              string  `json:"location"`
	PostCount             int64   `json:"post_count"`
	Profile               any     `json:"profile"`
	ProfilePictureUUID    any     `json:"profile_picture_uuid"`
	SocialFacebook        string  `json:"social_facebook"`
	SocialInstagram       string  `json:"social_instagram"`
	SocialLinkedIn        string  `json:"social_linkedin"`
	SocialTwitter         string  `json:"social_twitter"`
	Username              *string `json:"username,omitempty"`
	UUID                  string  `json:"uuid"`
	WebsiteURL            string  `json:"website_url"`
}

// GetDisplayName returns the best available display name for the person
func (p *Person) GetDisplayName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	first, last := deref(p.FirstName), deref(p.LastName)
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return p.UUID
}

// Vehicle represents a VINwiki vehicle
type Vehicle struct {
	Created       *string `json:"created,omitempty"`
	DecoderFail   *bool   `json:"decoder_fail,omitempty"`
	FollowerCount *int64  `json:"follower_count,omitempty"`
	IconPhoto     *string `json:"icon_photo,omitempty"`
	ID            *int64  `json:"id,omitempty"`
	LongName      *string `json:"long_name,omitempty"`
	Make          *string `json:"make,omitempty"`
	Model         *string `json:"model,omitempty"`
	Ownership     *bool   `json:"ownership,omitempty"`
	PostCount     *int64  `json:"post_count,omitempty"`
	PosterPhoto   *string `json:"poster_photo,omitempty"`
	Trim          *string `json:"trim,omitempty"`
	Updated       *string `json:"updated,omitempty"`
	UserUpdated   *bool   `json:"user_updated,omitempty"`
	Year          *string `json:"year,omitempty"`
	VIN           string  `json:"vin"`
}

// Name returns the long name, or year/make/model/trim when VINwiki has none
func (v *Vehicle) Name() string {
	if v.LongName != nil && *v.LongName != "" {
		return *v.LongName
	}
	var parts []string
	for _, p := range []*string{v.Year, v.Make, v.Model, v.Trim} {
		if s := deref(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return v.VIN
	}
	return strings.Join(parts, " ")
}

// PostImage is the image attached to a feed post
type PostImage struct {
	ID           *int64  `json:"id,omitempty"`
	UUID         *string `json:"uuid,omitempty"`
	URL          *string `json:"url,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Width        *int64  `json:"width,omitempty"`
	Height       *int64  `json:"height,omitempty"`
}

// PlateLookup is the vehicle decoded from a license plate
type PlateLookup struct {
	Description string `json:"description"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	VIN         string `json:"vin"`
}

// FeedPost is a post as it appears in vehicle and person feeds
type FeedPost struct {
	Client       string     `json:"client"`
	CommentCount string     `json:"comment_count"`
	Data         any        `json:"data"`
	DestURL      string     `json:"dest_url"`
	EventDate    string     `json:"event_date"`
	EventTime    string     `json:"event_time"`
	ID           int64      `json:"id"`
	Mileage      *int64     `json:"mileage,omitempty"`
	Image        *PostImage `json:"image,omitempty"`
	Locale       any        `json:"locale"`
	Person       *Person    `json:"person,omitempty"`
	PostDate     string     `json:"post_date"`
	PostDateAgo  string     `json:"post_date_ago"`
	PostText     string     `json:"post_text"`
	PostTime     string     `json:"post_time"`
	SubjectUUID  *string    `json:"subject_uuid,omitempty"`
	Type         string     `json:"type"`
	UUID         string     `json:"uuid"`
	Vehicle      *Vehicle   `json:"vehicle,omitempty"`
}

// EventAt parses the event time of the post, falling back to the event date
func (p *FeedPost) EventAt() (time.Time, error) {
	return parseFirst(p.EventTime, p.EventDate)
}

// PostedAt parses the time the post was made
func (p *FeedPost) PostedAt() (time.Time, error) {
	return parseFirst(p.PostTime, p.PostDate)
}

func parseFirst(values ...string) (time.Time, error) {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		return dateparse.ParseAny(v)
	}
	return time.Time{}, fmt.Errorf("no date available")
}

// VehicleSearch is the result of a free text vehicle search
type VehicleSearch struct {
	Count    int64     `json:"count"`
	Term     string    `json:"term"`
	Vehicles []Vehicle `json:"vehicles"`
}

// VehicleFeed is the public post feed of a vehicle
type VehicleFeed struct {
	Feed    []FeedPost `json:"feed"`
	Vehicle *Vehicle   `json:"vehicle,omitempty"`
}

// PersonFeed is the post feed of a person
type PersonFeed struct {
	Feed []FeedPost `json:"feed"`
}

// PersonPosts are the posts authored by a person
type PersonPosts struct {
	Posts []FeedPost `json:"posts"`
}

// RecentVins are the vehicles the user recently interacted with
type RecentVins struct {
	RecentVins []Vehicle `json:"recent_vins"`
}

// NotificationCount is the decoded notification_count payload. VINwiki does
// not document its shape, so it is returned as decoded.
type NotificationCount any

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
