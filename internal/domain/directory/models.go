package directory

type Employee struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
	Status      string `json:"status"`
	DisplayName string `json:"displayName"`
}

type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"managerId,omitempty"`
}

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)
