package models

// Project is a back-end project owned by the external domain service
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// TestCase is the domain service's representation of a test case
type TestCase struct {
	ID             string   `json:"id"`
	ShortID        string   `json:"short_id"`
	ProjectID      string   `json:"project_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Preconditions  string   `json:"preconditions,omitempty"`
	Steps          []string `json:"steps,omitempty"`
	ExpectedResult []string `json:"expected_result,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Status         string   `json:"status,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// TestCasePage is one page of a test case listing
type TestCasePage struct {
	Items      []*TestCase `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count"`
}

// Defect is the domain service's representation of a defect
type Defect struct {
	ID               string   `json:"id"`
	ShortID          string   `json:"short_id"`
	ProjectID        string   `json:"project_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	StepsToReproduce []string `json:"steps_to_reproduce,omitempty"`
	ExpectedResult   []string `json:"expected_result,omitempty"`
	ActualResult     []string `json:"actual_result,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Status           string   `json:"status,omitempty"`
}
