package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/vinwiki/vinwiki"
)

func printVehicle(v *vinwiki.Vehicle) {
	fmt.Printf("%s\n", v.Name())
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("  VIN:        %s\n", v.VIN)
	if v.PostCount != nil {
		fmt.Printf("  Posts:      %d\n", *v.PostCount)
	}
	if v.FollowerCount != nil {
		fmt.Printf("  Followers:  %d\n", *v.FollowerCount)
	}
	if v.DecoderFail != nil && *v.DecoderFail {
		fmt.Println("  Decoder:    failed, identity entered by users")
	}
}

func printPosts(posts []vinwiki.FeedPost) {
	fmt.Println(strings.Repeat("-", 80))

	for i := range posts {
		post := &posts[i]

		date := post.EventDate
		if at, err := post.EventAt(); err == nil {
			date = at.Format("2006-01-02")
		}

		author := "unknown"
		if post.Person != nil {
			author = post.Person.GetDisplayName()
		}

		fmt.Printf("• %s  %s  [%s] by %s", date, post.UUID, post.Type, author)
		if post.Mileage != nil && *post.Mileage > 0 {
			fmt.Printf("  %d mi", *post.Mileage)
		}
		fmt.Println()

		if post.Vehicle != nil {
			fmt.Printf("  %s (%s)\n", post.Vehicle.Name(), post.Vehicle.VIN)
		}
		if text := strings.TrimSpace(post.PostText); text != "" {
			fmt.Printf("  %s\n", text)
		}
	}
}

func printPerson(p *vinwiki.Person) {
	fmt.Printf("%s\n", p.GetDisplayName())
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("  UUID:       %s\n", p.UUID)
	if p.Username != nil {
		fmt.Printf("  Username:   %s\n", *p.Username)
	}
	if p.Location != "" {
		fmt.Printf("  Location:   %s\n", p.Location)
	}
	if p.Bio != "" {
		fmt.Printf("  Bio:        %s\n", p.Bio)
	}
	fmt.Printf("  Posts:      %d\n", p.PostCount)
	fmt.Printf("  Followers:  %d (following %d people, %d vehicles)\n", p.FollowerCount, p.FollowingCount, p.FollowingVehicleCount)
}
