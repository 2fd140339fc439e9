/*
Package weather maps WMO weather interpretation codes, as returned by the
Open-Meteo forecast API, to the named icons the firmware can draw.

The mapping is an ordered list of rules, each naming a set of codes and the
icon to use by day and by night. Codes not covered by any rule resolve to
Fallback, so resolution never fails.
*/
package weather

// IconName identifies one icon bitmap.
type IconName string

// The icons known to the firmware.
const (
	Sun          IconName = "sun"
	Moon         IconName = "moon"
	PartlyCloudy IconName = "partly-cloudy"
	Cloud        IconName = "cloud"
	Fog          IconName = "fog"
	Drizzle      IconName = "drizzle"
	Rain         IconName = "rain"
	Snow         IconName = "snow"
	Thunder      IconName = "thunder"
)

// Fallback is the icon for any code without a rule.
const Fallback = Cloud

// Icon describes how a named icon is sourced and emitted.
type Icon struct {
	Name IconName
	// Source is the file name, without extension, of the source image
	Source string
	// Symbol is the identifier of the generated byte array
	Symbol string
}

var icons = []Icon{
	{Sun, "clear-day_bw", "BITMAP_SUN"},
	{Moon, "clear-night_bw", "BITMAP_MOON"},
	{PartlyCloudy, "cloudy-1-day_bw", "BITMAP_PARTLY_CLOUDY"},
	{Cloud, "cloudy_bw", "BITMAP_CLOUD"},
	{Drizzle, "rainy-1_bw", "BITMAP_DRIZZLE"},
	{Rain, "rainy-2_bw", "BITMAP_RAIN"},
	{Snow, "snowy-2_bw", "BITMAP_SNOW"},
	{Thunder, "thunderstorms_bw", "BITMAP_THUNDER"},
	{Fog, "fog_bw", "BITMAP_FOG"},
}

// Icons returns every registered icon in generation order.
func Icons() []Icon {
	return append([]Icon(nil), icons...)
}

// Lookup returns the registered icon called name.
func Lookup(name IconName) (Icon, bool) {
	for _, i := range icons {
		if i.Name == name {
			return i, true
		}
	}
	return Icon{}, false
}

// Rule maps a set of codes to an icon. Day and Night only differ for clear
// skies.
type Rule struct {
	Codes []int
	Day   IconName
	Night IconName
}

// Matches reports whether code is one of r's codes.
func (r Rule) Matches(code int) bool {
	for _, c := range r.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Icon returns the icon r selects for the time of day.
func (r Rule) Icon(isDay bool) IconName {
	if isDay {
		return r.Day
	}
	return r.Night
}

// Table is an ordered list of rules; the first matching rule wins.
type Table []Rule

// Resolve returns the icon for code, or Fallback if no rule matches.
func (t Table) Resolve(code int, isDay bool) IconName {
	for _, r := range t {
		if r.Matches(code) {
			return r.Icon(isDay)
		}
	}
	return Fallback
}

var rules = Table{
	{Codes: []int{0, 1}, Day: Sun, Night: Moon},
	{Codes: []int{2}, Day: PartlyCloudy, Night: PartlyCloudy},
	{Codes: []int{3}, Day: Cloud, Night: Cloud},
	{Codes: []int{45, 48}, Day: Fog, Night: Fog},
	{Codes: []int{51, 53, 55, 56, 57}, Day: Drizzle, Night: Drizzle},
	{Codes: []int{61, 63, 65, 66, 67, 80, 81, 82}, Day: Rain, Night: Rain},
	{Codes: []int{71, 73, 75, 77, 85, 86}, Day: Snow, Night: Snow},
	{Codes: []int{95, 96, 99}, Day: Thunder, Night: Thunder},
}

// Rules returns a copy of the default rule table.
func Rules() Table {
	t := make(Table, len(rules))
	for i, r := range rules {
		t[i] = Rule{
			Codes: append([]int(nil), r.Codes...),
			Day:   r.Day,
			Night: r.Night,
		}
	}
	return t
}

// Resolve returns the icon for a WMO weather code using the default table.
func Resolve(code int, isDay bool) IconName {
	return rules.Resolve(code, isDay)
}
