package models

// Draft is the in-memory structured result of parsing one chat message.
// Ephemeral: produced by the parser, consumed by the next domain call,
// never stored. Unmatched optional sections stay zero-valued.
type Draft struct {
	Title            string
	Description      string
	Preconditions    string
	Environment      string
	Steps            []string
	StepsToReproduce []string
	ExpectedResult   []string
	ActualResult     []string
	Priority         string
	Severity         string
	Status           string
	Type             string
	Tags             []string
	LinkedIDs        []string
}
