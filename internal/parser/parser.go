package parser

// Classifier reduces a unit's diagnostic text to one short failure note
type Classifier interface {
	Classify(diagnostic string) string
}
