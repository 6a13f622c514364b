package notifier

import (
	"context"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/bkarakus/cinema-booking-system/internal/mailer"
)

// MailNotifier sends the booking confirmation email directly, for deployments
// without a message broker. The user store itself is outside this system; the
// directory only resolves a user ID to an address.
type MailNotifier struct {
	mailer    mailer.Mailer
	directory domain.UserDirectory
}

func NewMailNotifier(m mailer.Mailer, directory domain.UserDirectory) *MailNotifier {
	return &MailNotifier{
		mailer:    m,
		directory: directory,
	}
}

func (n *MailNotifier) BookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	email, err := n.directory.EmailByUserId(ctx, event.UserID)
	if err != nil {
		return err
	}

	data := map[string]any{
		"bookingNumber": event.BookingNumber,
		"seatCount":     len(event.SeatIDs),
		"totalPrice":    event.TotalPrice.StringFixed(2),
	}

	return n.mailer.Send(email, "booking_confirmation.tmpl", data)
}
