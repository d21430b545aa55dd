package objectives

type Objective struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Level        string   `json:"level"`
	Progress     float64  `json:"progress"`
	Status       string   `json:"status"`
	Contributors []string `json:"contributors"`
}

const (
	LevelIndividual = "individual"
	LevelTeam       = "team"
	LevelCompany    = "company"
)
