package places

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crucial707/staybook/cmd/cli/client"
	"github.com/crucial707/staybook/cmd/cli/output"
	"github.com/spf13/cobra"
)

// Place is a listing as returned by the API.
type Place struct {
	ID          int      `json:"id"`
	OwnerEmail  string   `json:"owner_email"`
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	Photos      []string `json:"photos"`
	Description string   `json:"description"`
	Perks       []string `json:"perks"`
	ExtraInfo   string   `json:"extra_info"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	MaxGuests   int      `json:"max_guests"`
	Price       int      `json:"price"`
}

// ==========================
// Init Places
// ==========================
func InitPlaces(rootCmd *cobra.Command) {
	placesCmd := &cobra.Command{
		Use:   "places",
		Short: "Browse and manage places",
	}

	placesCmd.AddCommand(
		listPlacesCmd(),
		minePlacesCmd(),
		showPlaceCmd(),
		createPlaceCmd(),
		deletePlaceCmd(),
	)

	rootCmd.AddCommand(placesCmd)
}

// ==========================
// LIST
// ==========================
func listPlacesCmd() *cobra.Command {
	var limit, offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all places",
		RunE: func(cmd *cobra.Command, args []string) error {
			var places []Place
			path := fmt.Sprintf("/api/v1/places?limit=%d&offset=%d", limit, offset)
			if _, err := client.Call("GET", path, nil, &places, false); err != nil {
				return err
			}
			return render(places, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of places to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func minePlacesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the places you own",
		RunE: func(cmd *cobra.Command, args []string) error {
			var places []Place
			if _, err := client.Call("GET", "/api/v1/user-places", nil, &places, true); err != nil {
				return err
			}
			return render(places, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func showPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var place Place
			if _, err := client.Call("GET", "/api/v1/places/"+args[0], nil, &place, false); err != nil {
				return err
			}
			return output.RenderJSON(place)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPlaceCmd() *cobra.Command {
	var in Place

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a place owned by you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var place Place
			if _, err := client.Call("POST", "/api/v1/places", in, &place, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Place %d created\n", place.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Title")
	cmd.Flags().StringVar(&in.Address, "address", "", "Address")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&in.Photos, "photo", nil, "Photo URL (repeatable)")
	cmd.Flags().StringSliceVar(&in.Perks, "perk", nil, "Perk (repeatable)")
	cmd.Flags().StringVar(&in.ExtraInfo, "extra-info", "", "Extra information")
	cmd.Flags().StringVar(&in.CheckIn, "check-in", "", "Check-in time")
	cmd.Flags().StringVar(&in.CheckOut, "check-out", "", "Check-out time")
	cmd.Flags().IntVar(&in.MaxGuests, "max-guests", 1, "Maximum number of guests")
	cmd.Flags().IntVar(&in.Price, "price", 0, "Price per night")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a place you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid place id %q", args[0])
			}
			if _, err := client.Call("DELETE", "/api/v1/places/"+args[0], nil, nil, true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Place deleted")
			return nil
		},
	}
}

func render(places []Place, asJSON bool) error {
	if asJSON {
		return output.RenderJSON(places)
	}
	rows := make([][]interface{}, 0, len(places))
	for _, p := range places {
		rows = append(rows, []interface{}{p.ID, p.Title, p.Address, p.MaxGuests, p.Price, strings.Join(p.Perks, ", "), p.OwnerEmail})
	}
	output.RenderTable([]string{"ID", "Title", "Address", "Guests", "Price", "Perks", "Owner"}, rows)
	return nil
}
