// Package icon maps authored icon names onto a closed set of glyphs.
package icon

import "strings"

// Icon is one of the glyphs the templates know how to draw.
type Icon int

const (
	// Fallback is drawn for any name that is not recognised.
	Fallback Icon = iota
	Church
	Cross
	Bible
	Heart
	Hands
	Music
	Users
	Calendar
	Clock
	MapPin
	Video
	Mail
	Gift
	Coffee
	Baby
)

var names = map[Icon]string{
	Fallback: "circle",
	Church:   "church",
	Cross:    "cross",
	Bible:    "book-open",
	Heart:    "heart",
	Hands:    "hand-heart",
	Music:    "music",
	Users:    "users",
	Calendar: "calendar",
	Clock:    "clock",
	MapPin:   "map-pin",
	Video:    "video",
	Mail:     "mail",
	Gift:     "gift",
	Coffee:   "coffee",
	Baby:     "baby",
}

// aliases accepts the loose spellings editors type into the CMS.
var aliases = map[string]Icon{
	"church":     Church,
	"cross":      Cross,
	"bible":      Bible,
	"book":       Bible,
	"book-open":  Bible,
	"bookopen":   Bible,
	"heart":      Heart,
	"hands":      Hands,
	"hand-heart": Hands,
	"handheart":  Hands,
	"prayer":     Hands,
	"music":      Music,
	"worship":    Music,
	"users":      Users,
	"people":     Users,
	"community":  Users,
	"calendar":   Calendar,
	"clock":      Clock,
	"time":       Clock,
	"map-pin":    MapPin,
	"mappin":     MapPin,
	"location":   MapPin,
	"video":      Video,
	"live":       Video,
	"mail":       Mail,
	"email":      Mail,
	"gift":       Gift,
	"give":       Gift,
	"coffee":     Coffee,
	"baby":       Baby,
	"kids":       Baby,
}

// Parse maps a free-form name to an Icon. It never fails; unknown or empty
// names yield Fallback.
func Parse(name string) Icon {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	key = strings.ReplaceAll(key, " ", "-")
	if ic, ok := aliases[key]; ok {
		return ic
	}
	return Fallback
}

// String returns the canonical glyph name.
func (i Icon) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return names[Fallback]
}

// Class returns the CSS class used by the page templates.
func (i Icon) Class() string {
	return "icon icon-" + i.String()
}

// IsFallback reports whether the icon is the placeholder glyph.
func (i Icon) IsFallback() bool {
	_, ok := names[i]
	return !ok || i == Fallback
}
