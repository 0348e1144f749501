package main

import (
	"fmt"
	"os"

	"github.com/crucial707/staybook/cmd/cli/auth"
	"github.com/crucial707/staybook/cmd/cli/bookings"
	"github.com/crucial707/staybook/cmd/cli/places"
	"github.com/crucial707/staybook/cmd/cli/root"
	"github.com/crucial707/staybook/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	places.InitPlaces(rootCmd)
	bookings.InitBookings(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
