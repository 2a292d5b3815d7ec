package domain

import "strings"

// FeatureType identifies an AI-assisted practice skill. Each feature has its
// own independent free-tier daily counter.
type FeatureType string

const (
	FeatureListening FeatureType = "listening"
	FeatureSpeaking  FeatureType = "speaking"
	FeatureReading   FeatureType = "reading"
	FeatureWriting   FeatureType = "writing"
)

// ParseFeature validates a client-supplied feature name.
func ParseFeature(s string) (FeatureType, error) {
	switch FeatureType(strings.ToLower(strings.TrimSpace(s))) {
	case FeatureListening:
		return FeatureListening, nil
	case FeatureSpeaking:
		return FeatureSpeaking, nil
	case FeatureReading:
		return FeatureReading, nil
	case FeatureWriting:
		return FeatureWriting, nil
	}
	return "", ErrInvalidFeature
}
