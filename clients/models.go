package clients

// CreateTestCaseRequest is the payload for creating a test case in the
// external domain service
type CreateTestCaseRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Preconditions  string   `json:"preconditions,omitempty"`
	Steps          []string `json:"steps,omitempty"`
	ExpectedResult []string `json:"expected_result,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Status         string   `json:"status,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// CreateDefectRequest is the payload for creating a defect in the external
// domain service
type CreateDefectRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	StepsToReproduce []string `json:"steps_to_reproduce,omitempty"`
	ExpectedResult   []string `json:"expected_result,omitempty"`
	ActualResult     []string `json:"actual_result,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Status           string   `json:"status,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}
