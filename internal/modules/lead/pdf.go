package lead

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"removals/internal/modules/pricing"
	"removals/internal/types"
)

// RenderPDF produces a one-page printable quote attached to the customer email.
func RenderPDF(req pricing.QuoteRequest, b pricing.Breakdown, d Details, biz Business) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	gbp := types.FormatGBP

	pdf.SetTitle(biz.Name+" quote", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(255, 138, 0)
	pdf.CellFormat(0, 12, tr("Your Moving Quote"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s - \"%s\"", biz.Name, biz.Tagline)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if d.Name != "" {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr("Prepared for "+d.Name), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	distance := "FREE (up to 10 miles)"
	if b.DistanceCharge > 0 {
		distance = fmt.Sprintf("%s miles x %s = %s", num(b.Miles), gbp(pricing.MileRate), gbp(b.DistanceCharge))
	}
	rows := [][2]string{
		{"Van", req.VanSize.DisplayName()},
		{"Van rate", gbp(b.VanHourlyRate) + "/hour"},
		{"Loaders", fmt.Sprintf("%d (%s/hour)", req.LoaderCount, gbp(b.LoaderHourlyRate))},
		{"Hourly rate", gbp(b.CombinedHourlyRate) + "/hour"},
		{"Requested hours", num(b.RequestedHours)},
		{"Billable hours", num(b.BillableHours)},
		{"Labour cost", gbp(b.LabourCost())},
		{"Distance", num(b.Miles) + " miles"},
		{"Distance charge", distance},
	}
	if d.PickupAddress != "" {
		rows = append(rows, [2]string{"Pickup", d.PickupAddress})
	}
	if d.DropoffAddress != "" {
		rows = append(rows, [2]string{"Drop-off", d.DropoffAddress})
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(60, 8, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, tr(row[1]), "B", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetFillColor(255, 138, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, 12, tr("TOTAL: "+gbp(b.Total)), "", 1, "C", true, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Book on WhatsApp or call %s. Available Mon-Sun 8:00 AM - 8:00 PM.", biz.DisplayPhone)), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}
