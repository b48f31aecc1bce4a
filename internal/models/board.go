package models

import (
	"sort"
	"time"
)

// NoArrivalTime is shown when an arrival carries no human readable time.
const NoArrivalTime = "--:--"

// BoardRow is a single line of an arrivals board.
type BoardRow struct {
	Number          int    `json:"number"`
	ArrivalTime     string `json:"arrivalTime"`
	Direction       string `json:"direction"`
	BestArrivalUnix *int64 `json:"bestArrivalUnix"`
	MinutesAway     *int   `json:"minutesAway"`
}

func NewBoardRow(a Arrival, now time.Time) BoardRow {
	row := BoardRow{
		Number:      int(a.LineID),
		ArrivalTime: NoArrivalTime,
		Direction:   a.Headsign,
	}
	if a.ScheduledArrival != nil {
		row.ArrivalTime = *a.ScheduledArrival
	}
	if ts, ok := BestArrivalUnix(a); ok {
		row.BestArrivalUnix = &ts
		minutes := int(ts-now.Unix()) / 60
		if minutes < 0 {
			minutes = 0
		}
		row.MinutesAway = &minutes
	}
	return row
}

// NewBoard converts arrivals into board rows, keeping the order they came in.
func NewBoard(arrivals []Arrival, now time.Time) []BoardRow {
	rows := make([]BoardRow, 0, len(arrivals))
	for _, a := range arrivals {
		rows = append(rows, NewBoardRow(a, now))
	}
	return rows
}

// SortBoard orders rows by their best arrival timestamp. Rows without one go
// last and keep their relative order.
func SortBoard(rows []BoardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].BestArrivalUnix, rows[j].BestArrivalUnix
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})
}

// ArrivalsForStopEntry is the entry of an arrivals-for-stop response.
type ArrivalsForStopEntry struct {
	StopID   string     `json:"stopId"`
	Arrivals []BoardRow `json:"arrivals"`
}
