package event

import "time"

// DisplayZoneName is the fixed timezone used to render human-readable
// dates regardless of storage timezone.
const DisplayZoneName = "America/Los_Angeles"

var displayZone *time.Location

func init() {
	loc, err := time.LoadLocation(DisplayZoneName)
	if err != nil {
		// The tzdata for America/Los_Angeles ships with every supported
		// platform; failing to load it means a broken environment.
		panic("loading display timezone: " + err.Error())
	}
	displayZone = loc
}

// DisplayZone returns the fixed display timezone (Pacific).
func DisplayZone() *time.Location {
	return displayZone
}

// ToDisplay converts a stored UTC timestamp to the display timezone.
func ToDisplay(t time.Time) time.Time {
	return t.In(displayZone)
}

// DisplayDate formats the date portion of a timestamp for notifications.
func DisplayDate(t time.Time) string {
	return ToDisplay(t).Format("2006-01-02")
}

// DisplayClock formats the wall-clock portion of a timestamp for
// notifications, e.g. "07:00 PM".
func DisplayClock(t time.Time) string {
	return ToDisplay(t).Format("03:04 PM")
}

// DisplayLong formats a timestamp the way outbound posts spell out
// dates, e.g. "Monday, January 06, 2025 at 07:00 PM".
func DisplayLong(t time.Time) string {
	return ToDisplay(t).Format("Monday, January 02, 2006 at 03:04 PM")
}
