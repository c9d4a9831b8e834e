package lead

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"removals/internal/modules/pricing"
	"removals/internal/types"
)

// emailView is the precomputed, display-ready data behind both email templates.
type emailView struct {
	Business       Business
	Details        Details
	VanName        string
	Loaders        int
	RequestedHours string
	BillableHours  string
	Miles          string
	VanRate        string
	LoaderRate     string
	HourlyRate     string
	LabourCost     string
	Distance       string
	DistanceCharge string
	Total          string
	BookingURL     string
	CallbackURL    string
}

var customerTmpl = template.Must(template.New("customer").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background: #FF8A00; padding: 30px; border-radius: 15px; text-align: center; margin-bottom: 30px;">
    <h1 style="color: white; margin: 0; font-size: 28px;">Your Moving Quote</h1>
    <p style="color: white; margin: 10px 0 0 0;">{{.Business.Name}} - "{{.Business.Tagline}}"</p>
  </div>
  <div style="background: white; padding: 30px; border-radius: 15px;">
    <h2 style="color: #333; margin-top: 0;">Hello {{.Details.Name}}!</h2>
    <p style="color: #666; line-height: 1.6;">Thank you for choosing {{.Business.Name}} for your moving needs. Here's your personalised quote:</p>
    <div style="background: #f8f9fa; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h3 style="color: #FF8A00; margin-top: 0;">Quote Breakdown</h3>
      <p style="margin: 5px 0;"><strong>Van Size:</strong> {{.VanName}}</p>
      <p style="margin: 5px 0;"><strong>Loaders:</strong> {{.Loaders}}</p>
      <p style="margin: 5px 0;">Van Rate: {{.VanRate}}/hour</p>
      <p style="margin: 5px 0;">Loaders: {{.LoaderRate}}/hour</p>
      <p style="margin: 5px 0;">Hourly Rate: {{.HourlyRate}}/hour</p>
      <p style="margin: 5px 0;"><strong>Hours:</strong> {{.RequestedHours}} (Billable: {{.BillableHours}})</p>
      <p style="margin: 5px 0;">Labour Cost: {{.HourlyRate}} × {{.BillableHours}}h = {{.LabourCost}}</p>
      <p style="margin: 5px 0;"><strong>Distance:</strong> {{.Miles}} miles</p>
      <p style="margin: 5px 0;">Distance Charge: {{.Distance}}</p>
      <div style="text-align: center; background: #FF8A00; color: white; padding: 15px; border-radius: 8px;">
        <h2 style="margin: 0; font-size: 32px;">TOTAL: {{.Total}}</h2>
      </div>
    </div>
    {{- if or .Details.PickupAddress .Details.DropoffAddress}}
    <div style="margin: 20px 0;">
      <h4 style="color: #333;">Addresses:</h4>
      {{- if .Details.PickupAddress}}
      <p style="margin: 5px 0;"><strong>Pickup:</strong> {{.Details.PickupAddress}}</p>
      {{- end}}
      {{- if .Details.DropoffAddress}}
      <p style="margin: 5px 0;"><strong>Drop-off:</strong> {{.Details.DropoffAddress}}</p>
      {{- end}}
    </div>
    {{- end}}
    {{- if .Details.Notes}}
    <div style="margin: 20px 0;">
      <h4 style="color: #333;">Additional Notes:</h4>
      <p style="color: #666; background: #f8f9fa; padding: 15px; border-radius: 8px;">{{.Details.Notes}}</p>
    </div>
    {{- end}}
    <div style="background: #e8f5e8; padding: 20px; border-radius: 10px; margin: 20px 0;">
      <h4 style="color: #2d5a2d; margin-top: 0;">What's Included:</h4>
      <ul style="color: #2d5a2d; margin: 0; padding-left: 20px;">
        <li>Professional, DBS-checked team</li>
        <li>All equipment &amp; protection materials</li>
        <li>Fully insured service</li>
        <li>No hidden fees or surprises</li>
        <li>Same-day availability</li>
      </ul>
    </div>
    <div style="text-align: center; margin: 30px 0;">
      <h3 style="color: #333;">Ready to Book?</h3>
      <a href="{{.BookingURL}}" style="display: inline-block; background: #25D366; color: white; padding: 15px 25px; text-decoration: none; border-radius: 8px; font-weight: bold; margin: 10px;">WhatsApp Us</a>
      <a href="tel:+{{.Business.WhatsAppPhone}}" style="display: inline-block; background: #FF8A00; color: white; padding: 15px 25px; text-decoration: none; border-radius: 8px; font-weight: bold; margin: 10px;">Call {{.Business.DisplayPhone}}</a>
    </div>
    <div style="text-align: center; padding-top: 20px; border-top: 1px solid #eee; color: #666; font-size: 14px;">
      <p><strong>{{.Business.Name}} Ltd</strong><br>
      Professional Removals • 10+ Years Experience • Bilingual Service<br>
      Available Mon-Sun: 8:00 AM - 8:00 PM</p>
    </div>
  </div>
</div>
`))

var businessTmpl = template.Must(template.New("business").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>New Quote Request - {{.Total}}</h2>
  <h3>Customer Details:</h3>
  <ul>
    <li><strong>Name:</strong> {{.Details.Name}}</li>
    <li><strong>Phone:</strong> {{.Details.Phone}}</li>
    {{- if .Details.Email}}
    <li><strong>Email:</strong> {{.Details.Email}}</li>
    {{- end}}
    {{- if .Details.PickupAddress}}
    <li><strong>Pickup:</strong> {{.Details.PickupAddress}}</li>
    {{- end}}
    {{- if .Details.DropoffAddress}}
    <li><strong>Drop-off:</strong> {{.Details.DropoffAddress}}</li>
    {{- end}}
  </ul>
  <h3>Quote Details:</h3>
  <ul>
    <li><strong>Van:</strong> {{.VanName}} ({{.VanRate}}/hour)</li>
    <li><strong>Loaders:</strong> {{.Loaders}} ({{.LoaderRate}}/hour)</li>
    <li><strong>Hourly Rate:</strong> {{.HourlyRate}}/hour</li>
    <li><strong>Hours:</strong> {{.RequestedHours}} requested, {{.BillableHours}} billable</li>
    <li><strong>Distance:</strong> {{.Miles}} miles ({{.DistanceCharge}} charge)</li>
    <li><strong>Total:</strong> {{.Total}}</li>
  </ul>
  {{- if .Details.Notes}}
  <h3>Notes:</h3><p>{{.Details.Notes}}</p>
  {{- end}}
  <p><a href="{{.CallbackURL}}">Contact via WhatsApp</a></p>
</div>
`))

func newEmailView(req pricing.QuoteRequest, b pricing.Breakdown, d Details, biz Business) emailView {
	gbp := types.FormatGBP
	total := gbp(b.Total)
	return emailView{
		Business:       biz,
		Details:        d,
		VanName:        req.VanSize.DisplayName(),
		Loaders:        req.LoaderCount,
		RequestedHours: num(b.RequestedHours),
		BillableHours:  num(b.BillableHours),
		Miles:          num(b.Miles),
		VanRate:        gbp(b.VanHourlyRate),
		LoaderRate:     gbp(b.LoaderHourlyRate),
		HourlyRate:     gbp(b.CombinedHourlyRate),
		LabourCost:     gbp(b.LabourCost()),
		Distance:       distanceLine(b),
		DistanceCharge: gbp(b.DistanceCharge),
		Total:          total,
		BookingURL: WhatsAppURL(biz.WhatsAppPhone,
			fmt.Sprintf("Hi! I received my quote for %s. I'd like to book my move.", total)),
		CallbackURL: WhatsAppURL(FormatPhoneForWhatsApp(d.Phone),
			fmt.Sprintf("Hi %s! I received your quote request for %s. Let's discuss your moving requirements.", d.Name, total)),
	}
}

// RenderCustomerHTML renders the confirmation email sent to the customer.
func RenderCustomerHTML(req pricing.QuoteRequest, b pricing.Breakdown, d Details, biz Business) (string, error) {
	return render(customerTmpl, newEmailView(req, b, d, biz))
}

// RenderBusinessHTML renders the internal new-lead notification.
func RenderBusinessHTML(req pricing.QuoteRequest, b pricing.Breakdown, d Details, biz Business) (string, error) {
	return render(businessTmpl, newEmailView(req, b, d, biz))
}

func render(t *template.Template, v emailView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func customerSubject(total float64, biz Business) string {
	return fmt.Sprintf("Your Moving Quote - %s | %s", types.FormatGBP(total), biz.Name)
}

func businessSubject(total float64, d Details) string {
	return fmt.Sprintf("New Quote Request - %s from %s", types.FormatGBP(total), d.Name)
}

// customerRecipient prefers the supplied email, then a name that is itself an
// address, then the configured fallback mailbox.
func customerRecipient(d Details, biz Business) string {
	switch {
	case d.Email != "":
		return d.Email
	case strings.Contains(d.Name, "@"):
		return d.Name
	default:
		return fmt.Sprintf("%s <%s>", d.Name, biz.CustomerFallback)
	}
}
