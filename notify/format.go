package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aaz50/ByteIntern/listing"
)

// EmptyDigest is the fixed message produced for an empty listing set.
const EmptyDigest = "No new jobs found."

// estOffset is the fixed local-time offset rendered next to UTC in the
// digest. Deliberately not DST-aware; the digest is a convenience, not a
// calendar.
const estOffset = -5 * time.Hour

const ruleWidth = 70

// Format renders a batch of listings into the plain-text digest body.
//
// Listings with a parseable posted timestamp come first, newest first;
// listings without one keep their relative order at the end. Never panics
// regardless of input.
func Format(listings []listing.Listing) string {
	if len(listings) == 0 {
		return EmptyDigest
	}

	sorted := make([]listing.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, iOK := sorted[i].PostedTime()
		tj, jOK := sorted[j].PostedTime()
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d new job posting(s)!\n\n", len(sorted))
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	for i, l := range sorted {
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Title)
		fmt.Fprintf(&b, "   Company: %s\n", l.Company)
		fmt.Fprintf(&b, "   Location: %s\n", l.Location)
		if l.HasSalaryRange() {
			fmt.Fprintf(&b, "   Salary: %s - %s\n", formatMoney(*l.SalaryMin), formatMoney(*l.SalaryMax))
		}
		fmt.Fprintf(&b, "   Apply: %s\n", l.URL)
		if l.PostedAt != "" {
			fmt.Fprintf(&b, "   Posted: %s\n", formatTimestamp(l.PostedAt))
		} else {
			b.WriteString("   Posted: N/A\n")
		}
		b.WriteString("\n" + strings.Repeat("-", ruleWidth) + "\n\n")
	}

	b.WriteString("\nThis is an automated message from your ByteIntern job tracker.\n")
	b.WriteString("Apply early for the best chances!")
	return b.String()
}

// formatTimestamp renders an ISO 8601 UTC timestamp as
// "MM/DD/YYYY - hh:mm PM EST (HH:MM UTC)". Unparseable input is returned
// unchanged.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		if t, err = time.Parse("2006-01-02T15:04:05", ts); err != nil {
			return ts
		}
	}
	utc := t.UTC()
	est := utc.Add(estOffset)
	return fmt.Sprintf("%s - %s EST (%s UTC)",
		est.Format("01/02/2006"),
		est.Format("03:04 PM"),
		utc.Format("15:04"),
	)
}

// formatMoney renders a salary bound as "$85,000" with thousands separators.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := fmt.Sprintf("%.0f", v)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
