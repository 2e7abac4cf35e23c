package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"hotelbook/models"
	"hotelbook/services/navigation"
	"hotelbook/services/search"

	"github.com/spf13/cobra"
)

func roomsCmd() *cobra.Command {
	var roomType string
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := application.Client.AllRooms(cmd.Context())
			if err != nil {
				return err
			}
			if roomType != "" {
				filtered := make([]models.Room, 0, len(rooms))
				for _, r := range rooms {
					if strings.EqualFold(r.Type, roomType) {
						filtered = append(filtered, r)
					}
				}
				rooms = filtered
			}
			return printRooms(cmd, rooms)
		},
	}
	cmd.Flags().StringVarP(&roomType, "type", "t", "", "Only rooms of this type")

	cmd.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List the room types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := application.Client.RoomTypes(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, types)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			if _, err := navigator(navigation.Path(navigation.RoomDetailsPath, args[0])); err != nil {
				return err
			}
			room, err := application.Client.Room(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printRooms(cmd, []models.Room{*room})
		},
	})
	return cmd
}

func searchCmd() *cobra.Command {
	var checkIn, checkOut, roomType string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search room availability",
		Example: `  hotelbook search --check-in 2025-06-01 --check-out 2025-06-03 --type SUITE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := search.Criteria{RoomType: roomType}
			if checkIn != "" {
				t, err := search.ParseDate(checkIn)
				if err != nil {
					return fmt.Errorf("invalid check-in date %q", checkIn)
				}
				criteria.CheckIn = t
			}
			if checkOut != "" {
				t, err := search.ParseDate(checkOut)
				if err != nil {
					return fmt.Errorf("invalid check-out date %q", checkOut)
				}
				criteria.CheckOut = t
			}

			var found []models.Room
			notice := search.NewNotice(application.Config.NoticeClearDelay)
			s := search.New(application.Client, func(rooms []models.Room) { found = rooms }, notice, application.Logger)
			if err := s.Run(cmd.Context(), criteria); err != nil {
				if msg := notice.Message(); msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return err
			}
			return printRooms(cmd, found)
		},
	}
	cmd.Flags().StringVar(&checkIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&roomType, "type", "t", "", "Room type")
	return cmd
}

func printRooms(cmd *cobra.Command, rooms []models.Room) error {
	if jsonOutput {
		return printJSON(cmd, rooms)
	}
	if len(rooms) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rooms")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tPRICE/NIGHT\tDESCRIPTION")
	for _, r := range rooms {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", r.ID, r.Type, r.PricePerNight, r.Description)
	}
	return w.Flush()
}

func printBookings(out io.Writer, bookings []models.Booking) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REFERENCE\tROOM\tCHECK-IN\tCHECK-OUT\tTOTAL\tSTATUS\tPAYMENT")
	for _, b := range bookings {
		roomID := b.RoomID
		if roomID == 0 && b.Room != nil {
			roomID = b.Room.ID
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.2f\t%s\t%s\n",
			b.BookingReference, roomID, b.CheckInDate, b.CheckOutDate, b.TotalPrice, b.BookingStatus, b.PaymentStatus)
	}
	return w.Flush()
}
