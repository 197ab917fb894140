package kitchen

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Urgency string

const (
	UrgencyGreen  Urgency = "green"
	UrgencyOrange Urgency = "orange"
	UrgencyRed    Urgency = "red"
)

// UrgencyFor colours a chit by how long it has been waiting.
func UrgencyFor(age time.Duration) Urgency {
	switch {
	case age >= 15*time.Minute:
		return UrgencyRed
	case age >= 10*time.Minute:
		return UrgencyOrange
	default:
		return UrgencyGreen
	}
}

func CourseName(course int) string {
	switch course {
	case 1:
		return "Appetizers"
	case 2:
		return "Entrees"
	case 3:
		return "Desserts"
	default:
		return fmt.Sprintf("Course %d", course)
	}
}

// FormatChit renders the printed kitchen chit, items grouped under
// their course headings in course order.
func FormatChit(o Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d  %s\n", o.Number, o.TableID)
	fmt.Fprintf(&b, "Server: %s\n", o.ServerName)
	fmt.Fprintf(&b, "%s\n", o.CreatedAt.Format("15:04"))

	courses := map[int]bool{}
	var order []int
	for _, g := range o.Items {
		if !courses[g.Course] {
			courses[g.Course] = true
			order = append(order, g.Course)
		}
	}
	sort.Ints(order)

	for _, course := range order {
		fmt.Fprintf(&b, "-- %s --\n", CourseName(course))
		for _, g := range o.Items {
			if g.Course != course {
				continue
			}
			fmt.Fprintf(&b, "%dx %s\n", g.Quantity, g.Name)
			if g.Notes != "" {
				fmt.Fprintf(&b, "   * %s\n", g.Notes)
			}
		}
	}
	return b.String()
}
