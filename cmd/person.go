package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/s0up4200/vinwiki/vinwiki"
)

var (
	noConfirm bool

	profileBio         string
	profileDisplayName string
	profileLocation    string
	profileWebsite     string
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in person",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile [uuid]",
	Short: "Show a person's profile, yours by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfile,
}

// updateProfileCmd represents the update-profile command
var updateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Change fields of your profile",
	Args:  cobra.NoArgs,
	RunE:  runUpdateProfile,
}

// postsCmd represents the posts command
var postsCmd = &cobra.Command{
	Use:   "posts [uuid]",
	Short: "List the posts written by a person, yours by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPosts,
}

// timelineCmd represents the timeline command
var timelineCmd = &cobra.Command{
	Use:   "timeline [uuid]",
	Short: "Show a person's feed, yours by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTimeline,
}

// recentCmd represents the recent command
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the vehicles you looked at recently",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

// notificationsCmd represents the notifications command
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show your unseen notification count",
	Args:  cobra.NoArgs,
	RunE:  runNotifications,
}

// deletePostCmd represents the delete-post command
var deletePostCmd = &cobra.Command{
	Use:   "delete-post <uuid>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeletePost,
}

func init() {
	rootCmd.AddCommand(whoamiCmd, profileCmd, updateProfileCmd, postsCmd, timelineCmd, recentCmd, notificationsCmd, deletePostCmd)

	postsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "saved filter name or filter expression")
	timelineCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "saved filter name or filter expression")

	updateProfileCmd.Flags().StringVar(&profileBio, "bio", "", "bio")
	updateProfileCmd.Flags().StringVar(&profileDisplayName, "display-name", "", "display name")
	updateProfileCmd.Flags().StringVar(&profileLocation, "location", "", "location")
	updateProfileCmd.Flags().StringVar(&profileWebsite, "website", "", "website URL")

	deletePostCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

// personArg returns the optional uuid argument, empty for the session's person
func personArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	if _, err := uuid.Parse(args[0]); err != nil {
		return "", fmt.Errorf("invalid person uuid %q: %w", args[0], err)
	}
	return args[0], nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	session := client.Session()
	if session == nil {
		return commandError(vinwiki.ErrSessionRequired)
	}

	person := session.Person()
	printPerson(&person)
	fmt.Printf("  Logged in:  %s\n", session.CreatedAt().Local().Format("2006-01-02 15:04"))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	id, err := personArg(args)
	if err != nil {
		return err
	}

	person, err := client.Strict().GetPersonProfile(cmd.Context(), id)
	if err != nil {
		return commandError(err)
	}

	printPerson(person)
	return nil
}

func runUpdateProfile(cmd *cobra.Command, args []string) error {
	var update vinwiki.ProfileUpdate
	flags := cmd.Flags()
	if flags.Changed("bio") {
		update.Bio = &profileBio
	}
	if flags.Changed("display-name") {
		update.DisplayName = &profileDisplayName
	}
	if flags.Changed("location") {
		update.Location = &profileLocation
	}
	if flags.Changed("website") {
		update.WebsiteURL = &profileWebsite
	}

	person, err := client.Strict().UpdatePersonProfile(cmd.Context(), "", update)
	if err != nil {
		return commandError(err)
	}

	logger.Info().Str("person", person.UUID).Msg("Profile updated")
	printPerson(person)
	return nil
}

func runPosts(cmd *cobra.Command, args []string) error {
	id, err := personArg(args)
	if err != nil {
		return err
	}

	result, err := client.Strict().GetPersonPosts(cmd.Context(), id)
	if err != nil {
		return commandError(err)
	}

	return listPosts(cmd, result.Posts)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	id, err := personArg(args)
	if err != nil {
		return err
	}

	result, err := client.Strict().GetPersonFeed(cmd.Context(), id)
	if err != nil {
		return commandError(err)
	}

	return listPosts(cmd, result.Feed)
}

func listPosts(cmd *cobra.Command, posts []vinwiki.FeedPost) error {
	posts, err := applyFilter(cmd.Context(), posts)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	fmt.Printf("Found %d posts:\n", len(posts))
	printPosts(posts)
	return nil
}

func runRecent(cmd *cobra.Command, args []string) error {
	result, err := client.Strict().GetRecentVins(cmd.Context())
	if err != nil {
		return commandError(err)
	}

	if len(result.RecentVins) == 0 {
		fmt.Println("No recent vehicles.")
		return nil
	}

	for i := range result.RecentVins {
		v := &result.RecentVins[i]
		fmt.Printf("• %s  %s\n", v.VIN, v.Name())
	}
	return nil
}

func runNotifications(cmd *cobra.Command, args []string) error {
	count, err := client.Strict().GetNotificationCount(cmd.Context())
	if err != nil {
		return commandError(err)
	}

	fmt.Printf("Notifications: %v\n", count)
	return nil
}

func runDeletePost(cmd *cobra.Command, args []string) error {
	postUUID := args[0]
	if _, err := uuid.Parse(postUUID); err != nil {
		return fmt.Errorf("invalid post uuid %q: %w", postUUID, err)
	}

	if !noConfirm {
		fmt.Printf("Delete post %s? [y/N]: ", postUUID)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	if _, err := client.Strict().DeletePost(cmd.Context(), postUUID); err != nil {
		return commandError(err)
	}

	logger.Info().Str("post", postUUID).Msg("Post deleted")
	fmt.Printf("✓ Deleted post %s\n", postUUID)
	return nil
}
