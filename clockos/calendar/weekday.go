package calendar

// DayOfWeek is a day of the week, Monday first.
type DayOfWeek uint8

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of DayOfWeek values.
const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var dayShortNames = [DaysPerWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// DayOfWeekFromDays returns the weekday of the given day count since
// 1970-01-01, which was a Thursday.
func DayOfWeekFromDays(days uint32) DayOfWeek {
	return DayOfWeek((days + uint32(Thursday)) % DaysPerWeek)
}

// Next returns the following day, wrapping Sunday to Monday.
func (d DayOfWeek) Next() DayOfWeek {
	return (d + 1) % DaysPerWeek
}

// Prev returns the preceding day, wrapping Monday to Sunday.
func (d DayOfWeek) Prev() DayOfWeek {
	return (d + DaysPerWeek - 1) % DaysPerWeek
}

// DaysUntil returns how many days forward from d reach other (0..6).
func (d DayOfWeek) DaysUntil(other DayOfWeek) uint32 {
	return uint32((other + DaysPerWeek - d%DaysPerWeek) % DaysPerWeek)
}

func (d DayOfWeek) String() string {
	if d >= DaysPerWeek {
		return "DayOfWeek(?)"
	}
	return dayNames[d]
}

// Short returns the two-letter abbreviation used on the display.
func (d DayOfWeek) Short() string {
	if d >= DaysPerWeek {
		return "??"
	}
	return dayShortNames[d]
}
