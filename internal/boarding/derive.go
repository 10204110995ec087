package boarding

import "time"

// VehicleCode returns the digits of the first parenthesized group in s that
// holds only ASCII digits, e.g. "Bus (12)" -> "12". "(A1) (7)" -> "7".
// ok is false when no such group exists.
func VehicleCode(s string) (code string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '(' {
			continue
		}
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > i+1 && j < len(s) && s[j] == ')' {
			return s[i+1 : j], true
		}
	}
	return "", false
}

// ScheduledTime returns the first "DD:DD" substring of s (two ASCII digits,
// a colon, two ASCII digits). No range check is made, and the match may sit
// inside a longer digit run: "123:456" -> "23:45".
func ScheduledTime(s string) (label string, ok bool) {
	for i := 0; i+5 <= len(s); i++ {
		if isDigit(s[i]) && isDigit(s[i+1]) && s[i+2] == ':' && isDigit(s[i+3]) && isDigit(s[i+4]) {
			return s[i : i+5], true
		}
	}
	return "", false
}

// Timestamp converts whole epoch seconds to a UTC time.
func Timestamp(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

// Derive computes the vehicle code, date-time and scheduled time of each record.
func Derive(records []Record) []Derived {
	out := make([]Derived, len(records))
	for i, r := range records {
		code, _ := VehicleCode(r.Vehicle)
		label, _ := ScheduledTime(r.TripName)
		out[i] = Derived{
			Record:        r,
			VehicleCode:   code,
			Time:          Timestamp(r.ServerTS),
			ScheduledTime: label,
		}
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
