package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MaxCounter is the highest collision counter; a stem has 1000 slots (000-999)
// per directory.
const MaxCounter = 999

// canonicalRE matches "YYYYMMDD-HHMMSS-XXX.ext".
var canonicalRE = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})-(\d{3})(\.[A-Za-z0-9]+)$`)

// Canonical is a parsed canonical file name.
type Canonical struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Counter              int
	Ext                  string // with leading dot, original case
}

// Stem returns "YYYYMMDD-HHMMSS".
func (c Canonical) Stem() string {
	return fmt.Sprintf("%04d%02d%02d-%02d%02d%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Name returns the full canonical file name.
func (c Canonical) Name() string {
	return Format(c.Stem(), c.Counter, c.Ext)
}

// YearString returns "YYYY".
func (c Canonical) YearString() string { return fmt.Sprintf("%04d", c.Year) }

// MonthString returns "MM".
func (c Canonical) MonthString() string { return fmt.Sprintf("%02d", c.Month) }

// Format builds "<stem>-XXX<ext>". ext includes the leading dot.
func Format(stem string, counter int, ext string) string {
	return fmt.Sprintf("%s-%03d%s", stem, counter, ext)
}

// NamingMismatchError reports a file name that is not in canonical form.
type NamingMismatchError struct {
	Name string
}

func (e *NamingMismatchError) Error() string {
	return fmt.Sprintf("%q is not named YYYYMMDD-HHMMSS-XXX.ext", e.Name)
}

// Parse parses a canonical file name. The date part must be a real calendar
// date-time.
func Parse(name string) (Canonical, error) {
	m := canonicalRE.FindStringSubmatch(name)
	if m == nil {
		return Canonical{}, &NamingMismatchError{Name: name}
	}
	n := make([]int, 7)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	c := Canonical{
		Year: n[0], Month: n[1], Day: n[2],
		Hour: n[3], Minute: n[4], Second: n[5],
		Counter: n[6],
		Ext:     m[8],
	}
	if _, err := time.Parse("20060102-150405", c.Stem()); err != nil {
		return Canonical{}, &NamingMismatchError{Name: name}
	}
	return c, nil
}
