package lead

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"removals/internal/modules/pricing"
	"removals/internal/types"
)

// RenderText builds the plain-text quote summary sent through WhatsApp. The
// output depends only on its arguments.
func RenderText(req pricing.QuoteRequest, b pricing.Breakdown, d Details, biz Business) string {
	var sb strings.Builder
	gbp := types.FormatGBP

	fmt.Fprintf(&sb, "🚚 *QUOTE REQUEST - %s*\n\n", biz.Name)

	if d.Name != "" {
		fmt.Fprintf(&sb, "👤 *Name:* %s\n", d.Name)
	}
	if d.Phone != "" {
		fmt.Fprintf(&sb, "📞 *Phone:* %s\n", d.Phone)
	}
	if d.Name != "" || d.Phone != "" {
		sb.WriteString("\n")
	}

	sb.WriteString("📋 *QUOTE DETAILS*\n")
	fmt.Fprintf(&sb, "🚐 *Van Size:* %s\n", req.VanSize.DisplayName())
	fmt.Fprintf(&sb, "👷 *Loaders:* %d\n\n", req.LoaderCount)

	sb.WriteString("💰 *PRICING BREAKDOWN*\n")
	fmt.Fprintf(&sb, "• Van Rate: %s/hour\n", gbp(b.VanHourlyRate))
	fmt.Fprintf(&sb, "• Loaders (%d × %s): %s/hour\n", req.LoaderCount, gbp(pricing.LoaderHourly), gbp(b.LoaderHourlyRate))
	fmt.Fprintf(&sb, "• Hourly Rate: %s/hour\n", gbp(b.CombinedHourlyRate))
	fmt.Fprintf(&sb, "• Requested Hours: %s\n", num(b.RequestedHours))
	fmt.Fprintf(&sb, "• Billable Hours: %s (%s)\n", num(b.BillableHours), billableNote(b))
	fmt.Fprintf(&sb, "• Labour Cost: %s × %sh = %s\n", gbp(b.CombinedHourlyRate), num(b.BillableHours), gbp(b.LabourCost()))
	fmt.Fprintf(&sb, "• Distance: %s miles\n", num(b.Miles))
	fmt.Fprintf(&sb, "• Distance Charge: %s\n", distanceLine(b))
	fmt.Fprintf(&sb, "\n🎯 *TOTAL: %s*\n\n", gbp(b.Total))

	if d.PickupAddress != "" || d.DropoffAddress != "" {
		sb.WriteString("📍 *ADDRESSES*\n")
		if d.PickupAddress != "" {
			fmt.Fprintf(&sb, "📤 *Pickup:* %s\n", d.PickupAddress)
		}
		if d.DropoffAddress != "" {
			fmt.Fprintf(&sb, "📥 *Drop-off:* %s\n", d.DropoffAddress)
		}
		sb.WriteString("\n")
	}

	if d.Notes != "" {
		fmt.Fprintf(&sb, "📝 *Notes:* %s\n\n", d.Notes)
	}

	sb.WriteString("✅ Please confirm this quote and let me know your preferred moving date and time!\n\n")
	fmt.Fprintf(&sb, "🌟 *Why choose %s?*\n", biz.Name)
	sb.WriteString("• 10+ years experience\n")
	sb.WriteString("• DBS-checked, friendly team\n")
	sb.WriteString("• Bilingual service (EN/ES)\n")
	sb.WriteString("• Same-day options available\n")
	sb.WriteString("• Fully insured & reliable\n\n")
	fmt.Fprintf(&sb, "\"%s\" 🚀", biz.Tagline)

	return sb.String()
}

// WhatsAppURL returns a wa.me deep link that opens a chat with phone
// pre-filled with text.
func WhatsAppURL(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + encodeURIComponent(text)
}

// Link renders the quote message and its deep link to the business number.
func Link(req pricing.QuoteRequest, d Details, biz Business) (string, string) {
	text := RenderText(req, pricing.Calculate(req), d, biz)
	return text, WhatsAppURL(biz.WhatsAppPhone, text)
}

// FormatPhoneForWhatsApp normalises a UK number to international digits.
func FormatPhoneForWhatsApp(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case strings.HasPrefix(d, "0"):
		return "44" + d[1:]
	case strings.HasPrefix(d, "44"):
		return d
	default:
		return "44" + d
	}
}

// uriUnescaped restores the marks encodeURIComponent leaves alone but
// url.QueryEscape escapes.
var uriUnescaped = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriUnescaped.Replace(url.QueryEscape(s))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func billableNote(b pricing.Breakdown) string {
	if b.MinimumApplied() {
		return fmt.Sprintf("%shr minimum", num(pricing.MinHours))
	}
	return "as requested"
}

func distanceLine(b pricing.Breakdown) string {
	if b.DistanceCharge == 0 {
		return fmt.Sprintf("FREE (≤%s miles)", num(pricing.FreeMilesThreshold))
	}
	return fmt.Sprintf("%s miles × %s = %s", num(b.Miles), types.FormatGBP(pricing.MileRate), types.FormatGBP(b.DistanceCharge))
}
