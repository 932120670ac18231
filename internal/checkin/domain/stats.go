package domain

// Stats summarises the attendee list for the dashboard.
type Stats struct {
	Total            int
	CheckedIn        int
	Paid             int
	CheckedInPercent int
	PaidPercent      int
}

// NewStats computes percentages rounded to the nearest whole number. An
// empty list yields zero percentages.
func NewStats(total, checkedIn, paid int) Stats {
	return Stats{
		Total:            total,
		CheckedIn:        checkedIn,
		Paid:             paid,
		CheckedInPercent: percent(checkedIn, total),
		PaidPercent:      percent(paid, total),
	}
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return (n*200 + total) / (total * 2)
}
