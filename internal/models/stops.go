package models

import (
	"bytes"
	"encoding/json"
)

// Stop is a record of the v2 /stops catalogue. Administrative identifiers and
// facilities change shape between API revisions, so they are kept as raw JSON
// and written back untouched when the catalogue is cached.
type Stop struct {
	DistrictID         json.RawMessage   `json:"district_id"`
	Facilities         []json.RawMessage `json:"facilities"`
	ID                 string            `json:"id"`
	Lat                float64           `json:"lat"`
	LineIDs            []string          `json:"line_ids"`
	Lon                float64           `json:"lon"`
	LongName           string            `json:"long_name"`
	MunicipalityID     json.RawMessage   `json:"municipality_id"`
	PatternIDs         []string          `json:"pattern_ids"`
	RegionID           json.RawMessage   `json:"region_id"`
	RouteIDs           []string          `json:"route_ids"`
	ShortName          json.RawMessage   `json:"short_name"`
	TTSName            string            `json:"tts_name"`
	WheelchairBoarding bool              `json:"wheelchair_boarding"`
}

// DisplayName is what a stop list shows: the long name, else a string short
// name, else the id.
func (s Stop) DisplayName() string {
	if s.LongName != "" {
		return s.LongName
	}
	if name := RawString(s.ShortName); name != "" {
		return name
	}
	return s.ID
}

// RawString returns the value of an opaque field when it holds a JSON string
// and "" for null, numbers, objects or malformed input.
func RawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
