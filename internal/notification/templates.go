package notification

import (
	"fmt"

	"github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/internal/domain/inquiry"
)

const displayDateLayout = "2 January 2006"

// BookingCreated returns the customer confirmation followed by the operator notice.
func BookingCreated(b *booking.Booking, operator string) []Message {
	c := b.Contact()
	date := b.Date().Format(displayDateLayout)
	return []Message{
		{
			To:      c.Email,
			Subject: "Booking Confirmation - GoCleeny",
			Body: fmt.Sprintf("Thank you for booking with GoCleeny. Your %s cleaning is scheduled for %s at %s.",
				b.ServiceType(), date, b.TimeSlot()),
		},
		{
			To:      operator,
			Subject: "New Booking Received",
			Body: fmt.Sprintf("A new booking has been received from %s (%s) for %s cleaning on %s at %s.",
				c.Name, c.Email, b.ServiceType(), date, b.TimeSlot()),
		},
	}
}

// BookingRescheduled returns the customer notice for a changed date or slot.
func BookingRescheduled(b *booking.Booking) Message {
	return Message{
		To:      b.Contact().Email,
		Subject: "Booking Update - GoCleeny",
		Body: fmt.Sprintf("Your booking %s has been updated. Your %s cleaning is now scheduled for %s at %s.",
			b.Reference(), b.ServiceType(), b.Date().Format(displayDateLayout), b.TimeSlot()),
	}
}

// BookingCancelled returns the customer cancellation notice.
func BookingCancelled(b *booking.Booking) Message {
	body := "Your booking has been cancelled."
	if reason := b.CancellationReason(); reason != "" {
		body += " Reason: " + reason
	}
	return Message{
		To:      b.Contact().Email,
		Subject: "Booking Cancellation - GoCleeny",
		Body:    body,
	}
}

// BookingConfirmed tells the customer operations has accepted the booking.
func BookingConfirmed(b *booking.Booking) Message {
	return Message{
		To:      b.Contact().Email,
		Subject: "Booking Confirmed - GoCleeny",
		Body: fmt.Sprintf("Good news, %s. Your %s cleaning on %s at %s is confirmed.",
			b.Contact().Name, b.ServiceType(), b.Date().Format(displayDateLayout), b.TimeSlot()),
	}
}

// InquiryReceived returns the operator notice followed by the submitter confirmation.
func InquiryReceived(inq *inquiry.Inquiry, operator string) []Message {
	switch inq.Kind() {
	case inquiry.KindJobApplication:
		resume := inq.Detail("resume_url")
		if resume == "" {
			resume = "Not provided"
		}
		return []Message{
			{
				To:      operator,
				Subject: "New Job Application: " + inq.Topic(),
				Body: fmt.Sprintf("From: %s (%s)\nPhone: %s\nPosition: %s\nExperience: %s\n\nMessage: %s\n\nResume: %s",
					inq.Name(), inq.Email(), inq.Phone(), inq.Topic(), inq.Detail("experience"), inq.Message(), resume),
			},
			{
				To:      inq.Email(),
				Subject: "Application Received - GoCleeny",
				Body: fmt.Sprintf("Dear %s,\n\nThank you for applying to GoCleeny. We've received your application for the %s position and will review it shortly.\n\nBest regards,\nThe GoCleeny Recruitment Team",
					inq.Name(), inq.Topic()),
			},
		}
	case inquiry.KindFranchise:
		return []Message{
			{
				To:      operator,
				Subject: "New Franchise Inquiry",
				Body: fmt.Sprintf("From: %s (%s)\nPhone: %s\nLocation: %s\nInvestment: %s\nExperience: %s\n\nMessage: %s",
					inq.Name(), inq.Email(), inq.Phone(), inq.Topic(), inq.Detail("investment"), inq.Detail("experience"), inq.Message()),
			},
			{
				To:      inq.Email(),
				Subject: "Franchise Inquiry Received - GoCleeny",
				Body: fmt.Sprintf("Dear %s,\n\nThank you for your interest in a GoCleeny franchise. We've received your inquiry and our franchise development team will contact you within 2-3 business days to discuss the next steps.\n\nBest regards,\nThe GoCleeny Franchise Team",
					inq.Name()),
			},
		}
	default:
		return []Message{
			{
				To:      operator,
				Subject: "New Contact Form Submission: " + inq.Topic(),
				Body:    fmt.Sprintf("From: %s (%s)\n\nMessage: %s", inq.Name(), inq.Email(), inq.Message()),
			},
			{
				To:      inq.Email(),
				Subject: "We've received your message - GoCleeny",
				Body: fmt.Sprintf("Dear %s,\n\nThank you for contacting GoCleeny. We've received your message and will get back to you within 24-48 hours.\n\nBest regards,\nThe GoCleeny Team",
					inq.Name()),
			},
		}
	}
}
