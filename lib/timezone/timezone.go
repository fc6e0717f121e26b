package timezone

import "time"

// Location is Indian Standard Time, the portal publishes its monthly registers
// by IST calendar months regardless of where this runs. It has no DST, so a
// fixed zone avoids depending on the tz database being installed.
var Location = time.FixedZone("IST", 5*60*60+30*60)

func Now() time.Time {
	return time.Now().In(Location)
}

// MonthOf returns the calendar month and year t falls in, in IST.
func MonthOf(t time.Time) (month int, year int) {
	t = t.In(Location)
	return int(t.Month()), t.Year()
}
