package cli

import (
	"fmt"
	"strconv"

	"hotelbook/models"
	"hotelbook/services/navigation"
	"hotelbook/services/payment"
	"hotelbook/utils"

	"github.com/spf13/cobra"
)

func bookCmd() *cobra.Command {
	var req models.BookingRequest
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := navigator(navigation.Path(navigation.RoomDetailsPath, strconv.FormatInt(req.RoomID, 10))); err != nil {
				return err
			}
			if err := utils.ValidateStruct(req, "Please provide a room and both dates"); err != nil {
				return err
			}
			resp, err := application.Client.CreateBooking(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			if resp.BookingReference != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Booking reference: %s\n", resp.BookingReference)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.RoomID, "room", 0, "Room id")
	cmd.Flags().StringVar(&req.CheckInDate, "check-in", "", "Check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.CheckOutDate, "check-out", "", "Check-out date (YYYY-MM-DD)")
	return cmd
}

func bookingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "booking <reference>",
		Short: "Find a booking by its reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := application.Client.BookingByReference(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, b)
			}
			return printBookings(cmd.OutOrStdout(), []models.Booking{*b})
		},
	}
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := navigator(navigation.ProfilePath); err != nil {
				return err
			}
			user, err := application.Client.Account(cmd.Context())
			if err != nil {
				return err
			}
			bookings, err := application.Client.MyBookings(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, map[string]any{"user": user, "bookings": bookings})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n\n", user.FirstName, user.LastName, user.Email)
			return printBookings(cmd.OutOrStdout(), bookings)
		},
	}
}

// newProvider builds the provider that collects payment for pay.
var newProvider = func(opts payment.StripeOptions) (payment.Provider, error) {
	return payment.NewStripeProvider(opts)
}

func payCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "pay <booking-reference> <amount>",
		Short: "Pay for a booking",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, amount := args[0], args[1]
			nav, err := navigator(navigation.Path(navigation.PaymentPath, ref, amount))
			if err != nil {
				return err
			}
			provider, err := newProvider(payment.StripeOptions{
				PublishableKey: application.Config.StripePublishableKey,
				PaymentMethod:  method,
			})
			if err != nil {
				return err
			}

			checkout := application.Orchestrator(ref, amount, nav)
			runErr := checkout.Run(cmd.Context(), provider)
			if runErr != nil && !checkout.State().Terminal() {
				return runErr
			}

			out := cmd.OutOrStdout()
			if outcome, ok := checkout.Outcome(); ok && outcome.Success {
				fmt.Fprintf(out, "Payment for %s succeeded (transaction %s)\n", ref, outcome.TransactionID)
			} else {
				fmt.Fprintf(out, "Payment for %s failed: %s\n", ref, failureText(checkout, runErr))
			}
			fmt.Fprintln(out, nav.Current().Path)
			return runErr
		},
	}
	cmd.Flags().StringVar(&method, "payment-method", payment.DefaultPaymentMethod, "Payment method id to confirm with")
	return cmd
}

func failureText(checkout *payment.Orchestrator, err error) string {
	if outcome, ok := checkout.Outcome(); ok && outcome.FailureReason != "" {
		return outcome.FailureReason
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}
