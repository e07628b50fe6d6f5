package notify

import (
	"fmt"
	"strings"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
)

// ApprovedList renders the approved applications of an event as a single
// moderation message. The primary candidate, when one exists, is listed
// first and marked. All candidate-supplied fields are escaped.
func ApprovedList(apps []model.Application) string {
	ordered := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if a.IsPrimary {
			ordered = append(ordered, a)
		}
	}
	for _, a := range apps {
		if !a.IsPrimary {
			ordered = append(ordered, a)
		}
	}

	var b strings.Builder
	b.WriteString("Approved applications:\n")
	for i, a := range ordered {
		mark := ""
		if a.IsPrimary {
			mark = " [primary]"
		}
		fmt.Fprintf(&b, "\n%d. %s%s\nPhone: %s\n#candidate_%d",
			i+1, Escape(a.FullName), mark, Escape(a.Phone), a.UserID)
	}
	return b.String()
}
