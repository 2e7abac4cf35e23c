package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"hotelbook/models"
	"hotelbook/services/navigation"
	"hotelbook/utils"

	"github.com/spf13/cobra"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage rooms and bookings (admin accounts only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadApp(cmd, args); err != nil {
				return err
			}
			if _, err := navigator(navigation.AdminPath); err != nil {
				return err
			}
			if !application.Oracle.IsAdmin() {
				return errors.New("admin access required")
			}
			return nil
		},
	}

	cmd.AddCommand(adminBookingsCmd())
	cmd.AddCommand(roomFormCmd("add-room", "Add a room", false))
	cmd.AddCommand(roomFormCmd("update-room <id>", "Update a room", true))
	cmd.AddCommand(deleteRoomCmd())
	cmd.AddCommand(updateBookingCmd())
	return cmd
}

func adminBookingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List every booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := application.Client.AllBookings(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, bookings)
			}
			return printBookings(cmd.OutOrStdout(), bookings)
		},
	}
}

func roomFormCmd(use, short string, update bool) *cobra.Command {
	var form models.RoomForm
	var image string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if update {
				id, err := parseID(args)
				if err != nil {
					return err
				}
				form.ID = id
			}
			if image != "" {
				data, err := os.ReadFile(image)
				if err != nil {
					return fmt.Errorf("failed to read room image: %w", err)
				}
				form.Image = data
				form.ImageName = filepath.Base(image)
			}
			if !update && (form.Type == "" || form.PricePerNight <= 0) {
				return &utils.ValidationError{Message: "Please fill all input"}
			}

			call := application.Client.AddRoom
			if update {
				call = application.Client.UpdateRoom
			}
			resp, err := call(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	if update {
		cmd.Args = cobra.ExactArgs(1)
	} else {
		cmd.Args = cobra.NoArgs
	}
	cmd.Flags().IntVar(&form.RoomNumber, "number", 0, "Room number")
	cmd.Flags().StringVarP(&form.Type, "type", "t", "", "Room type")
	cmd.Flags().Float64Var(&form.PricePerNight, "price", 0, "Price per night")
	cmd.Flags().IntVar(&form.Capacity, "capacity", 0, "Guest capacity")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&image, "image", "", "Path of the room photo")
	return cmd
}

func deleteRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-room <id>",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			if err := application.Client.DeleteRoom(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Room %d deleted\n", id)
			return nil
		},
	}
}

func updateBookingCmd() *cobra.Command {
	var update models.BookingUpdate
	cmd := &cobra.Command{
		Use:   "update-booking <id>",
		Short: "Change the status of a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}
			update.ID = id
			if update.BookingStatus == "" && update.PaymentStatus == "" {
				return errors.New("nothing to update, pass --status or --payment-status")
			}
			resp, err := application.Client.UpdateBooking(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&update.BookingStatus, "status", "", "Booking status, e.g. CHECKED_IN")
	cmd.Flags().StringVar(&update.PaymentStatus, "payment-status", "", "Payment status, e.g. COMPLETED")
	return cmd
}

func parseID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
