package bookings

import (
	"fmt"
	"time"

	"github.com/crucial707/staybook/cmd/cli/client"
	"github.com/crucial707/staybook/cmd/cli/output"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// Booking is a stay as returned by the API.
type Booking struct {
	ID       int       `json:"id"`
	PlaceID  int       `json:"place_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Guests   int       `json:"guests"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Price    int       `json:"price"`
}

func InitBookings(rootCmd *cobra.Command) {
	bookingsCmd := &cobra.Command{
		Use:   "bookings",
		Short: "Book places and list your bookings",
	}
	bookingsCmd.AddCommand(createBookingCmd(), listBookingsCmd(), showBookingCmd())
	rootCmd.AddCommand(bookingsCmd)
}

func createBookingCmd() *cobra.Command {
	var in struct {
		Place    int    `json:"place"`
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
		Guests   int    `json:"guests"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book a place",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b Booking
			if _, err := client.Call("POST", "/api/v1/bookings", in, &b, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d confirmed: %s to %s, total %d\n",
				b.ID, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.Price)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.Place, "place", 0, "Place id")
	cmd.Flags().StringVar(&in.CheckIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.CheckOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&in.Guests, "guests", 1, "Number of guests")
	cmd.Flags().StringVar(&in.Name, "name", "", "Guest name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Contact phone")
	return cmd
}

func listBookingsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var bookings []Booking
			if _, err := client.Call("GET", "/api/v1/bookings", nil, &bookings, true); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(bookings)
			}
			rows := make([][]interface{}, 0, len(bookings))
			for _, b := range bookings {
				rows = append(rows, []interface{}{
					b.ID, b.PlaceID, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), b.Guests, b.Price,
				})
			}
			output.RenderTable([]string{"ID", "Place", "Check-in", "Check-out", "Guests", "Price"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func showBookingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b Booking
			if _, err := client.Call("GET", "/api/v1/bookings/"+args[0], nil, &b, true); err != nil {
				return err
			}
			return output.RenderJSON(b)
		},
	}
}
