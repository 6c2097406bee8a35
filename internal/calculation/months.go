package calculation

// Forward curves are stored as maps keyed "pricejan".."pricedec".
const monthKeyPrefix = "price"

var standardMonths = [12]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// monthKey maps a 1-12 calendar month to its forward map key.
func monthKey(month int) string {
	return monthKeyPrefix + standardMonths[month-1]
}

var displayMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// CurveMonthLabels returns the calendar labels for the 12 curve points
// produced for a target month, in rate0..rate11 order. Exporters use it to
// label the curve without re-deriving the cursor walk. A negative target
// starts the walk at December, the same point an over-range one resets to.
func CurveMonthLabels(targetMonth int) []string {
	labels := make([]string, 0, 12)
	cursor := targetMonth + 1
	if cursor < 0 {
		cursor = 0
	}
	for i := 0; i < 12; i++ {
		if cursor > 11 {
			cursor = 0
		}
		labels = append(labels, displayMonths[(cursor+11)%12])
		cursor++
	}
	return labels
}

// MonthLabel returns the display label for a 1-12 calendar month, or an
// empty string outside that range.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return displayMonths[month-1]
}

// cursorMonthKey maps a forward-curve cursor (0-11) to its forward map key.
// The cursor is shifted by one month against the calendar: cursor 0 is
// December, cursor 1 is January, ... cursor 11 is November. The curve builder
// starts at targetMonth+1, so this shift is what makes the curve begin the
// month after the target and wrap the year boundary correctly. Keep it as a
// table lookup; date arithmetic here reintroduces wraparound quirks.
func cursorMonthKey(cursor int) string {
	return monthKeyPrefix + standardMonths[(cursor+11)%12]
}
