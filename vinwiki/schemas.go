package vinwiki

// Schema table for every hydrated model. Fields are listed in the order
// VINwiki documents them.
var (
	PersonSchema        = NewSchema[Person]("Person")
	VehicleSchema       = NewSchema[Vehicle]("Vehicle")
	PostImageSchema     = NewSchema[PostImage]("PostImage")
	PlateLookupSchema   = NewSchema[PlateLookup]("PlateLookup")
	FeedPostSchema      = NewSchema[FeedPost]("FeedPost")
	VehicleSearchSchema = NewSchema[VehicleSearch]("VehicleSearch")
	VehicleFeedSchema   = NewSchema[VehicleFeed]("VehicleFeed")
	PersonFeedSchema    = NewSchema[PersonFeed]("PersonFeed")
	PersonPostsSchema   = NewSchema[PersonPosts]("PersonPosts")
	RecentVinsSchema    = NewSchema[RecentVins]("RecentVins")
)

func init() {
	PersonSchema.Define(
		Raw("avatar", func(p *Person) *any { return &p.Avatar }),
		String("bio", func(p *Person) *string { return &p.Bio }),
		String("display_name", func(p *Person) *string { return &p.DisplayName }),
		OptString("email", func(p *Person) **string { return &p.Email }),
		OptString("first_name", func(p *Person) **string { return &p.FirstName }),
		Int("follower_count", func(p *Person) *int64 { return &p.FollowerCount }),
		Int("following_count", func(p *Person) *int64 { return &p.FollowingCount }),
		Int("following_vehicle_count", func(p *Person) *int64 { return &p.FollowingVehicleCount }),
		Int("id", func(p *Person) *int64 { return &p.ID }),
		OptString("last_name", func(p *Person) **string { return &p.LastName }),
		String("location", func(p *Person) *string { return &p.Location }),
		Int("post_count", func(p *Person) *int64 { return &p.PostCount }),
		Raw("profile", func(p *Person) *any { return &p.Profile }),
		Raw("profile_picture_uuid", func(p *Person) *any { return &p.ProfilePictureUUID }),
		String("social_facebook", func(p *Person) *string { return &p.SocialFacebook }),
		String("social_instagram", func(p *Person) *string { return &p.SocialInstagram }),
		String("social_linkedin", func(p *Person) *string { return &p.SocialLinkedIn }),
		String("social_twitter", func(p *Person) *string { return &p.SocialTwitter }),
		OptString("username", func(p *Person) **string { return &p.Username }),
		String("uuid", func(p *Person) *string { return &p.UUID }),
		String("website_url", func(p *Person) *string { return &p.WebsiteURL }),
	)

	VehicleSchema.Define(
		OptString("created", func(v *Vehicle) **string { return &v.Created }),
		OptBool("decoder_fail", func(v *Vehicle) **bool { return &v.DecoderFail }),
		OptInt("follower_count", func(v *Vehicle) **int64 { return &v.FollowerCount }),
		OptString("icon_photo", func(v *Vehicle) **string { return &v.IconPhoto }),
		OptInt("id", func(v *Vehicle) **int64 { return &v.ID }),
		OptString("long_name", func(v *Vehicle) **string { return &v.LongName }),
		OptString("make", func(v *Vehicle) **string { return &v.Make }),
		OptString("model", func(v *Vehicle) **string { return &v.Model }),
		OptBool("ownership", func(v *Vehicle) **bool { return &v.Ownership }),
		OptInt("post_count", func(v *Vehicle) **int64 { return &v.PostCount }),
		OptString("poster_photo", func(v *Vehicle) **string { return &v.PosterPhoto }),
		OptString("trim", func(v *Vehicle) **string { return &v.Trim }),
		OptString("updated", func(v *Vehicle) **string { return &v.Updated }),
		OptBool("user_updated", func(v *Vehicle) **bool { return &v.UserUpdated }),
		OptString("year", func(v *Vehicle) **string { return &v.Year }),
		String("vin", func(v *Vehicle) *string { return &v.VIN }),
	)

	PostImageSchema.Define(
		OptInt("id", func(i *PostImage) **int64 { return &i.ID }),
		OptString("uuid", func(i *PostImage) **string { return &i.UUID }),
		OptString("url", func(i *PostImage) **string { return &i.URL }),
		OptString("thumbnail_url", func(i *PostImage) **string { return &i.ThumbnailURL }),
		OptInt("width", func(i *PostImage) **int64 { return &i.Width }),
		OptInt("height", func(i *PostImage) **int64 { return &i.Height }),
	)

	PlateLookupSchema.Define(
		String("description", func(p *PlateLookup) *string { return &p.Description }),
		String("make", func(p *PlateLookup) *string { return &p.Make }),
		String("model", func(p *PlateLookup) *string { return &p.Model }),
		String("year", func(p *PlateLookup) *string { return &p.Year }),
		String("vin", func(p *PlateLookup) *string { return &p.VIN }),
	)

	FeedPostSchema.Define(
		String("client", func(p *FeedPost) *string { return &p.Client }),
		String("comment_count", func(p *FeedPost) *string { return &p.CommentCount }),
		Raw("data", func(p *FeedPost) *any { return &p.Data }),
		String("dest_url", func(p *FeedPost) *string { return &p.DestURL }),
		String("event_date", func(p *FeedPost) *string { return &p.EventDate }),
		String("event_time", func(p *FeedPost) *string { return &p.EventTime }),
		Int("id", func(p *FeedPost) *int64 { return &p.ID }),
		OptInt("mileage", func(p *FeedPost) **int64 { return &p.Mileage }),
		Model("image", PostImageSchema, func(p *FeedPost) **PostImage { return &p.Image }),
		Raw("locale", func(p *FeedPost) *any { return &p.Locale }),
		Model("person", PersonSchema, func(p *FeedPost) **Person { return &p.Person }),
		String("post_date", func(p *FeedPost) *string { return &p.PostDate }),
		String("post_date_ago", func(p *FeedPost) *string { return &p.PostDateAgo }),
		String("post_text", func(p *FeedPost) *string { return &p.PostText }),
		String("post_time", func(p *FeedPost) *string { return &p.PostTime }),
		OptString("subject_uuid", func(p *FeedPost) **string { return &p.SubjectUUID }),
		String("type", func(p *FeedPost) *string { return &p.Type }),
		String("uuid", func(p *FeedPost) *string { return &p.UUID }),
		Model("vehicle", VehicleSchema, func(p *FeedPost) **Vehicle { return &p.Vehicle }),
	)

	VehicleSearchSchema.Define(
		Int("count", func(s *VehicleSearch) *int64 { return &s.Count }),
		String("term", func(s *VehicleSearch) *string { return &s.Term }),
		ModelList("vehicles", VehicleSchema, func(s *VehicleSearch) *[]Vehicle { return &s.Vehicles }),
	)

	VehicleFeedSchema.Define(
		ModelList("feed", FeedPostSchema, func(f *VehicleFeed) *[]FeedPost { return &f.Feed }),
		Model("vehicle", VehicleSchema, func(f *VehicleFeed) **Vehicle { return &f.Vehicle }),
	)

	PersonFeedSchema.Define(
		ModelList("feed", FeedPostSchema, func(f *PersonFeed) *[]FeedPost { return &f.Feed }),
	)

	PersonPostsSchema.Define(
		ModelList("posts", FeedPostSchema, func(p *PersonPosts) *[]FeedPost { return &p.Posts }),
	)

	RecentVinsSchema.Define(
		ModelList("recent_vins", VehicleSchema, func(r *RecentVins) *[]Vehicle { return &r.RecentVins }),
	)
}
