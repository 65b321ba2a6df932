package email

import "fmt"

// AlertSighting is the per-aircraft slice of an activity alert.
type AlertSighting struct {
	ICAO24     string
	Callsign   string
	AltitudeFt string
	Status     string
}

// SendActivityAlert notifies recipients that low-altitude or
// on-ground traffic was detected at the watched airport.
func (c *Client) SendActivityAlert(to []string, airportName, airportCode, detectedAt string, sightings []AlertSighting) error {
	data := map[string]any{
		"AirportName": airportName,
		"AirportCode": airportCode,
		"DetectedAt":  detectedAt,
		"Sightings":   sightings,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("Aircraft activity at %s (%d detected)", airportCode, len(sightings)),
		TemplateActivityAlert,
		data,
	)
}

// SendDailyDigest sends the end-of-day summary of detections and
// inferred operations.
func (c *Client) SendDailyDigest(to []string, airportCode, day string, sightings, landings, takeoffs int) error {
	data := map[string]any{
		"AirportCode": airportCode,
		"Day":         day,
		"Sightings":   sightings,
		"Landings":    landings,
		"Takeoffs":    takeoffs,
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("%s daily activity digest for %s", airportCode, day),
		TemplateDailyDigest,
		data,
	)
}
