// Package tracking builds public parcel tracking URLs for supported carriers.
package tracking

import (
	"net/url"
	"strings"
)

// Carrier identifies a domestic delivery company.
type Carrier string

const (
	CarrierThailandPost Carrier = "thailand_post"
	CarrierKerry        Carrier = "kerry"
	CarrierFlash        Carrier = "flash"
	CarrierJT           Carrier = "jt"
)

var templates = map[Carrier]string{
	CarrierThailandPost: "https://track.thailandpost.co.th/?trackNumber=",
	CarrierKerry:        "https://th.kerryexpress.com/en/track/?track=",
	CarrierFlash:        "https://www.flashexpress.co.th/fle/tracking?se=",
	CarrierJT:           "https://www.jtexpress.co.th/service/track?billcode=",
}

// Carriers lists supported carriers.
func Carriers() []Carrier {
	return []Carrier{CarrierThailandPost, CarrierKerry, CarrierFlash, CarrierJT}
}

// Supported reports whether carrier has a tracking page.
func Supported(carrier string) bool {
	_, ok := templates[normalize(carrier)]
	return ok
}

// Link returns the tracking page for number, or false when the carrier is unknown or number is blank.
func Link(carrier, number string) (string, bool) {
	base, ok := templates[normalize(carrier)]
	number = strings.TrimSpace(number)
	if !ok || number == "" {
		return "", false
	}
	return base + url.QueryEscape(number), true
}

func normalize(carrier string) Carrier {
	return Carrier(strings.ToLower(strings.TrimSpace(carrier)))
}
