package ear

// Sample is a single frame's EAR measurement. A frame where no face or
// no usable eye contour was found carries no value; modelling that as
// an explicit absent sample keeps it distinct from a genuinely low EAR.
type Sample struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// Measured returns a sample carrying a measured EAR value.
func Measured(value float64) Sample {
	return Sample{Value: value, Present: true}
}

// Absent returns a sample for a frame without a usable measurement.
func Absent() Sample {
	return Sample{}
}
