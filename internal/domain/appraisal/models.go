package appraisal

import "time"

type Cycle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

type Template struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ReviewType string    `json:"reviewType"`
	IsDefault  bool      `json:"isDefault"`
	Sections   []Section `json:"sections"`
}

type Section struct {
	Title     string     `json:"title"`
	Weight    float64    `json:"weight"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	ScaleMin int      `json:"scaleMin,omitempty"`
	ScaleMax int      `json:"scaleMax,omitempty"`
}

// Answer is either numeric (1-5) or free text, never both.
type Answer struct {
	Numeric *float64 `json:"numeric,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (a Answer) IsNumeric() bool {
	return a.Numeric != nil
}

func NumericAnswer(value float64) Answer {
	return Answer{Numeric: &value}
}

func TextAnswer(value string) Answer {
	return Answer{Text: value}
}

type ResponseItem struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"answer"`
	Comments   string `json:"comments,omitempty"`
}

type Response struct {
	Items           []ResponseItem `json:"items"`
	OverallComments string         `json:"overallComments,omitempty"`
	SubmittedAt     time.Time      `json:"submittedAt"`
}

type Goal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      string  `json:"target"`
	Actual      string  `json:"actual"`
	Rating      float64 `json:"rating"`
	Status      string  `json:"status"`
	Comments    string  `json:"comments,omitempty"`
}

type Competency struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Level            string  `json:"level"`
	Rating           float64 `json:"rating"`
	Evidence         string  `json:"evidence,omitempty"`
	DevelopmentNeeds string  `json:"developmentNeeds,omitempty"`
}

type Appraisal struct {
	ID            string       `json:"id"`
	CycleID       string       `json:"cycleId"`
	EmployeeID    string       `json:"employeeId"`
	ManagerID     string       `json:"managerId"`
	TemplateID    string       `json:"templateId"`
	Status        string       `json:"status"`
	Goals         []Goal       `json:"goals"`
	Competencies  []Competency `json:"competencies"`
	SelfReview    *Response    `json:"selfReview,omitempty"`
	ManagerReview *Response    `json:"managerReview,omitempty"`
	HRReview      *Response    `json:"hrReview,omitempty"`
	OverallRating *float64     `json:"overallRating,omitempty"`
	Comments      string       `json:"comments,omitempty"`
	CompletedAt   *time.Time   `json:"completedAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Reviews returns the submitted reviews in self, manager, hr order.
func (a Appraisal) Reviews() []Response {
	var out []Response
	if a.SelfReview != nil {
		out = append(out, *a.SelfReview)
	}
	if a.ManagerReview != nil {
		out = append(out, *a.ManagerReview)
	}
	if a.HRReview != nil {
		out = append(out, *a.HRReview)
	}
	return out
}

type Feedback360 struct {
	ID           string     `json:"id"`
	AppraisalID  string     `json:"appraisalId"`
	RevieweeID   string     `json:"revieweeId"`
	ReviewerID   string     `json:"reviewerId"`
	Relationship string     `json:"relationship"`
	Status       string     `json:"status"`
	Responses    *Response  `json:"responses,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
}

type CompetencyGap struct {
	Name              string  `json:"name"`
	AverageRating     float64 `json:"averageRating"`
	Count             int     `json:"count"`
	ImprovementNeeded bool    `json:"improvementNeeded"`
}

type Analytics struct {
	CycleID             string          `json:"cycleId"`
	Total               int             `json:"total"`
	Completed           int             `json:"completed"`
	AverageRating       float64         `json:"averageRating"`
	RatingDistribution  map[string]int  `json:"ratingDistribution"`
	StatusBreakdown     map[string]int  `json:"statusBreakdown"`
	DepartmentBreakdown map[string]int  `json:"departmentBreakdown"`
	CompetencyGaps      []CompetencyGap `json:"competencyGaps"`
}
