package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// LineID is a Carris line number. The API transmits it as a numeric string
// ("742"); anything that does not parse as a signed 16-bit integer is rejected.
type LineID int16

func (l *LineID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("line_id: expected numeric string: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return fmt.Errorf("line_id: %w", err)
	}
	*l = LineID(n)
	return nil
}

func (l LineID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(l)))
}

func (l LineID) String() string {
	return strconv.Itoa(int(l))
}

// Arrival is one predicted, observed or scheduled bus arrival at a stop as
// returned by GET /arrivals/by_stop/{stop_id}.
type Arrival struct {
	EstimatedArrivalUnix *int64  `json:"estimated_arrival_unix"`
	ObservedArrivalUnix  *int64  `json:"observed_arrival_unix"`
	ScheduledArrivalUnix *int64  `json:"scheduled_arrival_unix"`
	LineID               LineID  `json:"line_id"`
	Headsign             string  `json:"headsign"`
	ScheduledArrival     *string `json:"scheduled_arrival"`
}

// UnmarshalJSON requires line_id and headsign. The timestamps and
// scheduled_arrival may be null or absent.
func (a *Arrival) UnmarshalJSON(data []byte) error {
	type plain Arrival
	var decoded struct {
		plain
		LineID   *LineID `json:"line_id"`
		Headsign *string `json:"headsign"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.LineID == nil {
		return errors.New("arrival: missing line_id")
	}
	if decoded.Headsign == nil {
		return errors.New("arrival: missing headsign")
	}

	*a = Arrival(decoded.plain)
	a.LineID = *decoded.LineID
	a.Headsign = *decoded.Headsign
	return nil
}

// BestArrivalUnix picks the most reliable timestamp available for an arrival:
// estimated, then observed, then scheduled.
func BestArrivalUnix(a Arrival) (int64, bool) {
	switch {
	case a.EstimatedArrivalUnix != nil:
		return *a.EstimatedArrivalUnix, true
	case a.ObservedArrivalUnix != nil:
		return *a.ObservedArrivalUnix, true
	case a.ScheduledArrivalUnix != nil:
		return *a.ScheduledArrivalUnix, true
	}
	return 0, false
}
