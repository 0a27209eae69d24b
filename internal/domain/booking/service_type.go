package booking

import (
	"fmt"
	"strings"
	"time"
)

// ServiceType is the kind of cleaning requested.
type ServiceType string

const (
	ServiceHome    ServiceType = "home"
	ServiceOffice  ServiceType = "office"
	ServiceTenancy ServiceType = "tenancy"
	ServiceAirbnb  ServiceType = "airbnb"
	ServiceDeep    ServiceType = "deep"
)

var serviceTypes = []ServiceType{ServiceHome, ServiceOffice, ServiceTenancy, ServiceAirbnb, ServiceDeep}

var serviceNames = map[ServiceType]string{
	ServiceHome:    "Home Cleaning",
	ServiceOffice:  "Office Cleaning",
	ServiceTenancy: "End of Tenancy",
	ServiceAirbnb:  "Airbnb Cleaning",
	ServiceDeep:    "Deep Cleaning",
}

// IsValid returns true if the service type is offered.
func (t ServiceType) IsValid() bool {
	_, ok := serviceNames[t]
	return ok
}

// DisplayName returns the customer-facing service name.
func (t ServiceType) DisplayName() string {
	if name, ok := serviceNames[t]; ok {
		return name
	}
	return "Cleaning Service"
}

// ServiceTypes returns every offered service type in display order.
func ServiceTypes() []ServiceType {
	out := make([]ServiceType, len(serviceTypes))
	copy(out, serviceTypes)
	return out
}

// TimeSlot is an hourly start time between 08:00 and 17:00.
type TimeSlot string

var timeSlots = []TimeSlot{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// IsValid returns true if the slot is one of the fixed hourly slots.
func (s TimeSlot) IsValid() bool {
	for _, slot := range timeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// String returns the HH:MM form of the slot.
func (s TimeSlot) String() string { return string(s) }

// TimeSlots returns every bookable slot in order.
func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// DateLayout is the wire and storage layout of a booking date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD civil date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d.UTC(), nil
}

// Contact identifies the customer. All fields are required; only presence is checked.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c Contact) normalized() Contact {
	return Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}

// DefaultAddress is recorded until an address is collected.
const DefaultAddress = "To be confirmed"
