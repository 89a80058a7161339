package telematics

import (
	"time"

	"fleetwatch/internal/geo"
)

// Tracker is one vehicle as reported by the provider's tracker/list call.
type Tracker struct {
	ID     int     `json:"id"`
	Label  string  `json:"label"`
	Source *Source `json:"source,omitempty"`

	GPS          *GPS      `json:"gps,omitempty"`
	LastPosition *Position `json:"last_position,omitempty"`

	LastUpdate       string `json:"last_update,omitempty"`
	MovementStatus   string `json:"movement_status,omitempty"` // moving | stopped | parked
	ConnectionStatus string `json:"connection_status,omitempty"`
	Ignition         *bool  `json:"ignition,omitempty"`
}

// Source is the hardware device currently bound to a tracker. Its id can alias
// across physical units when devices are swapped, so it is only a fallback
// identity.
type Source struct {
	ID int `json:"id"`
}

type GPS struct {
	Location geo.Point `json:"location"`
	Speed    float64   `json:"speed"`
	Heading  float64   `json:"heading"`
	Updated  string    `json:"updated,omitempty"`
}

type Position struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Speed   float64 `json:"speed,omitempty"`
	Heading float64 `json:"heading,omitempty"`
}

// VehicleID is the single chokepoint for vehicle identity. The logical tracker
// id survives hardware swaps, so it wins over the source id whenever present.
func (t *Tracker) VehicleID() int {
	if t.ID != 0 {
		return t.ID
	}
	if t.Source != nil {
		return t.Source.ID
	}
	return 0
}

// Coordinates returns the tracker's position, preferring the live GPS fix and
// falling back to the last stored position. ok is false when neither exists.
func (t *Tracker) Coordinates() (geo.Point, bool) {
	if t.GPS != nil && (t.GPS.Location.Lat != 0 || t.GPS.Location.Lng != 0) {
		return t.GPS.Location, true
	}
	if t.LastPosition != nil && (t.LastPosition.Lat != 0 || t.LastPosition.Lng != 0) {
		return geo.Point{Lat: t.LastPosition.Lat, Lng: t.LastPosition.Lng}, true
	}
	return geo.Point{}, false
}

func (t *Tracker) Speed() float64 {
	if t.GPS != nil {
		return t.GPS.Speed
	}
	if t.LastPosition != nil {
		return t.LastPosition.Speed
	}
	return 0
}

func (t *Tracker) Heading() float64 {
	if t.GPS != nil {
		return t.GPS.Heading
	}
	if t.LastPosition != nil {
		return t.LastPosition.Heading
	}
	return 0
}

// Status returns the provider's movement classification, inferring one from
// speed when the provider omits it.
func (t *Tracker) Status() string {
	if t.MovementStatus != "" {
		return t.MovementStatus
	}
	if t.Speed() > 0 {
		return "moving"
	}
	return "parked"
}

// providerTimeLayout is how the provider formats timestamps: no timezone
// suffix, interpreted in the account's fixed offset.
const providerTimeLayout = "2006-01-02 15:04:05"

// ParseProviderTime parses a provider timestamp. Strings that already carry
// timezone information parse as RFC3339; the bare layout is interpreted at the
// given fixed UTC offset (hours).
func ParseProviderTime(s string, utcOffset int) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	zone := time.FixedZone("provider", utcOffset*3600)
	return time.ParseInLocation(providerTimeLayout, s, zone)
}
