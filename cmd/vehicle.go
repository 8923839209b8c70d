package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/vinwiki/vinwiki"
)

var (
	plateCountry string
	plateState   string

	updateYear  int
	updateMake  string
	updateModel string
	updateTrim  string

	postText    string
	postMileage int64
	postDate    string
)

// vehicleCmd represents the vehicle command
var vehicleCmd = &cobra.Command{
	Use:   "vehicle <vin> [vin...]",
	Short: "Show a vehicle and its latest posts",
	Long: `Show a vehicle and its latest posts.

With more than one VIN only a summary line per vehicle is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVehicle,
}

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed <vin>",
	Short: "List the posts on a vehicle's feed",
	Long: `List the posts on a vehicle's feed.

The --filter flag takes either the name of a filter saved in the config or an
expression, for example:

  vinwiki feed WBAPL33579A406957 --filter 'isType("service") and Mileage > 100000'`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search vehicles by VIN, year, make or model",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

// plateCmd represents the plate command
var plateCmd = &cobra.Command{
	Use:   "plate <plate>",
	Short: "Decode a license plate into a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlate,
}

// updateVehicleCmd represents the update-vehicle command
var updateVehicleCmd = &cobra.Command{
	Use:   "update-vehicle <vin>",
	Short: "Correct the year, make, model and trim of a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdateVehicle,
}

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <vin>",
	Short: "Add a post to a vehicle's feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runPost,
}

func init() {
	rootCmd.AddCommand(vehicleCmd, feedCmd, searchCmd, plateCmd, updateVehicleCmd, postCmd)

	feedCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "saved filter name or filter expression")

	plateCmd.Flags().StringVar(&plateState, "state", "", "state or province code, e.g. MD")
	plateCmd.Flags().StringVar(&plateCountry, "country", "US", "country code")
	_ = plateCmd.MarkFlagRequired("state")

	updateVehicleCmd.Flags().IntVar(&updateYear, "year", 0, "model year")
	updateVehicleCmd.Flags().StringVar(&updateMake, "make", "", "make")
	updateVehicleCmd.Flags().StringVar(&updateModel, "model", "", "model")
	updateVehicleCmd.Flags().StringVar(&updateTrim, "trim", "", "trim")

	postCmd.Flags().StringVarP(&postText, "text", "t", "", "post text")
	postCmd.Flags().Int64Var(&postMileage, "mileage", 0, "odometer reading")
	postCmd.Flags().StringVar(&postDate, "date", "", "event date (YYYY-MM-DD), defaults to now")
	_ = postCmd.MarkFlagRequired("text")
}

func runVehicle(cmd *cobra.Command, args []string) error {
	api := client.Strict()
	if len(args) > 1 {
		return runVehicles(cmd, api, args)
	}
	vin := args[0]

	var (
		vehicle *vinwiki.Vehicle
		feed    *vinwiki.VehicleFeed
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		vehicle, err = api.GetVehicle(ctx, vin)
		return err
	})
	g.Go(func() error {
		var err error
		feed, err = api.GetVehicleFeed(ctx, vin)
		return err
	})
	if err := g.Wait(); err != nil {
		return commandError(err)
	}

	printVehicle(vehicle)

	posts := feed.Feed
	if len(posts) > 5 {
		posts = posts[:5]
	}
	if len(posts) > 0 {
		fmt.Printf("\nLatest posts (%d of %d):\n", len(posts), len(feed.Feed))
		printPosts(posts)
	}

	return nil
}

func runVehicles(cmd *cobra.Command, api *vinwiki.Strict, vins []string) error {
	vehicles, err := fetchVehicles(cmd.Context(), api, vins)
	if err != nil {
		return commandError(err)
	}

	found := 0
	for i, v := range vehicles {
		if v == nil {
			fmt.Printf("• %s  not found\n", vins[i])
			continue
		}
		found++
		fmt.Printf("• %s  %s\n", v.VIN, v.Name())
	}

	if found == 0 {
		return fmt.Errorf("none of the %d vehicles could be looked up", len(vins))
	}
	return nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	feed, err := client.Strict().GetVehicleFeed(cmd.Context(), args[0])
	if err != nil {
		return commandError(err)
	}

	posts, err := applyFilter(cmd.Context(), feed.Feed)
	if err != nil {
		return err
	}

	if feed.Vehicle != nil {
		fmt.Printf("Feed for %s (%s)\n", feed.Vehicle.Name(), feed.Vehicle.VIN)
	}

	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	fmt.Printf("\nFound %d posts:\n", len(posts))
	printPosts(posts)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	result, err := client.Strict().VehicleSearch(cmd.Context(), query)
	if err != nil {
		return commandError(err)
	}

	if len(result.Vehicles) == 0 {
		fmt.Printf("No vehicles found for %q.\n", query)
		return nil
	}

	fmt.Printf("Found %d vehicles for %q:\n", result.Count, result.Term)
	fmt.Println(strings.Repeat("-", 80))
	for i := range result.Vehicles {
		v := &result.Vehicles[i]
		fmt.Printf("• %s  %s\n", v.VIN, v.Name())
	}
	return nil
}

func runPlate(cmd *cobra.Command, args []string) error {
	result, err := client.Strict().PlateLookup(cmd.Context(), args[0], plateCountry, plateState)
	if err != nil {
		return commandError(err)
	}

	fmt.Printf("Plate %s (%s, %s)\n", args[0], plateState, plateCountry)
	fmt.Printf("  VIN:         %s\n", result.VIN)
	fmt.Printf("  Vehicle:     %s %s %s\n", result.Year, result.Make, result.Model)
	if result.Description != "" {
		fmt.Printf("  Description: %s\n", result.Description)
	}
	return nil
}

func runUpdateVehicle(cmd *cobra.Command, args []string) error {
	update := vinwiki.VehicleUpdate{
		Year:  updateYear,
		Make:  updateMake,
		Model: updateModel,
		Trim:  updateTrim,
	}

	if _, err := client.Strict().UpdateVehicle(cmd.Context(), args[0], update); err != nil {
		return commandError(err)
	}

	logger.Info().Str("vin", args[0]).Msg("Vehicle updated")
	fmt.Printf("✓ Updated %s\n", args[0])
	return nil
}

func runPost(cmd *cobra.Command, args []string) error {
	post := vinwiki.NewVehiclePost(postText)
	post.Mileage = postMileage

	if postDate != "" {
		date, err := time.Parse(time.DateOnly, postDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", postDate, err)
		}
		post.EventDate = date
	}

	created, err := client.Strict().CreatePost(cmd.Context(), args[0], post)
	if err != nil {
		return commandError(err)
	}

	logger.Info().Str("vin", args[0]).Str("post", created.UUID).Msg("Post created")
	fmt.Printf("✓ Created post %s\n", created.UUID)
	return nil
}
