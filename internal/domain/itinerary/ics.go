package itinerary

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// DefaultProductID identifies exported calendars.
const DefaultProductID = "-//itinerary-planner//EN"

// ExportICS renders an itinerary as an iCalendar document. Stored dates and
// hours are read in loc.
func ExportICS(detail Detail, loc *time.Location, productID string, stamp time.Time) (string, error) {
	if productID == "" {
		productID = DefaultProductID
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, row := range detail.Places {
		start, end, err := visitSpan(row, loc)
		if err != nil {
			return "", fmt.Errorf("row %s: %w", row.ID, err)
		}
		uid := row.ID
		if uid == "" {
			uid = fmt.Sprintf("%s-%s-%s", detail.ID, row.PlaceID, start.UTC().Format("20060102T15"))
		}
		event := cal.AddEvent(uid + "@itinerary-planner")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(row.Name)
		if row.Address != "" {
			event.SetLocation(row.Address)
		}
		if row.Category != "" {
			event.SetDescription(fmt.Sprintf("%s (%s)", detail.Title, row.Category))
		} else {
			event.SetDescription(detail.Title)
		}
	}
	return cal.Serialize(), nil
}

func visitSpan(row PlaceVisit, loc *time.Location) (time.Time, time.Time, error) {
	date, err := ParseVisitDate(row.VisitDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startHour, err := ParseHour(row.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endHour, err := ParseHour(row.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endHour <= startHour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q before start %q", ErrInvalidTime, row.EndTime, row.StartTime)
	}
	return wallClock(date, startHour), wallClock(date, endHour), nil
}

// wallClock sets the hour on the visit's calendar day so daylight saving
// transitions keep the stored local hour. Hour 24 is next day midnight.
func wallClock(date time.Time, hour int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, date.Location())
}
