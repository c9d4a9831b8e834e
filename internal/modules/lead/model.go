// README: Lead details, business identity and outbound email shapes.
package lead

import (
	"time"

	"removals/internal/modules/pricing"
)

// Details are the optional customer-supplied fields of a lead.
type Details struct {
	Name           string `json:"name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	PickupAddress  string `json:"pickupAddress,omitempty"`
	DropoffAddress string `json:"dropoffAddress,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type Submission struct {
	Details Details
	Quote   pricing.QuoteRequest
}

// Business identifies the company in every outbound message.
type Business struct {
	Name             string `yaml:"name"`
	Tagline          string `yaml:"tagline"`
	WhatsAppPhone    string `yaml:"whatsapp_phone"`
	DisplayPhone     string `yaml:"display_phone"`
	FromAddress      string `yaml:"from_address"`
	Inbox            string `yaml:"inbox"`
	CustomerFallback string `yaml:"customer_fallback"`
}

func DefaultBusiness() Business {
	return Business{
		Name:             "Mudanzas Edyta London",
		Tagline:          "Lift on the way",
		WhatsAppPhone:    "447456507570",
		DisplayPhone:     "07456 507 570",
		FromAddress:      "quotes@mudanzasedytalondon.com",
		Inbox:            "info@mudanzasedytalondon.com",
		CustomerFallback: "customer@example.com",
	}
}

type Attachment struct {
	Filename string
	Content  []byte
}

type Email struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Record is an archived lead.
type Record struct {
	ID        string
	Details   Details
	Quote     pricing.QuoteRequest
	Total     float64
	CreatedAt time.Time
}
