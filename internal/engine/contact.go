package engine

// BirthData is a resolved birth record: who, when (local wall clock) and where.
// It decouples the engine from the vCard and geocoding layers.
type BirthData struct {
	// Name is the display name (Formatted Name or Structured Name).
	Name string `json:"name"`

	// Civil is the local date and time of birth.
	Civil CivilDateTime `json:"civil"`

	// TimeKnown is false when only the birth date was recorded; Civil then holds noon.
	TimeKnown bool `json:"time_known"`

	// Location carries the coordinates and the UTC offset in force at birth.
	Location Location `json:"location"`

	// Place is the free-text birthplace, if any.
	Place string `json:"place,omitempty"`
}

// Instant normalizes the birth moment.
func (b BirthData) Instant() (Instant, error) {
	if err := b.Location.Validate(); err != nil {
		return 0, err
	}
	return NormalizeInstant(b.Civil, b.Location.UTCOffset)
}

// label names the record in messages, or returns fallback when it has no name.
func (b BirthData) label(fallback string) string {
	if b.Name == "" {
		return fallback
	}
	return b.Name
}
