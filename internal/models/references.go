package models

// ReferencesModel carries the records a response entry or list points at.
type ReferencesModel struct {
	Stops []Stop `json:"stops"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Stops: []Stop{},
	}
}
