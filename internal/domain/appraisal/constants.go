package appraisal

const (
	CycleStatusDraft     = "draft"
	CycleStatusActive    = "active"
	CycleStatusCompleted = "completed"
	CycleStatusArchived  = "archived"

	ReviewTypeSelf    = "self"
	ReviewTypeManager = "manager"
	ReviewTypeBoth    = "both"

	StatusDraft         = "draft"
	StatusSelfReview    = "self-review"
	StatusManagerReview = "manager-review"
	StatusHRReview      = "hr-review"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"

	RoleSelf    = "self"
	RoleManager = "manager"
	RoleHR      = "hr"

	GoalStatusAchieved          = "achieved"
	GoalStatusPartiallyAchieved = "partially-achieved"
	GoalStatusNotAchieved       = "not-achieved"

	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"

	QuestionTypeRating         = "rating"
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple-choice"
	QuestionTypeYesNo          = "yes-no"
	QuestionTypeScale          = "scale"

	Feedback360StatusPending   = "pending"
	Feedback360StatusCompleted = "completed"

	RelationshipPeer        = "peer"
	RelationshipSubordinate = "subordinate"
	RelationshipCustomer    = "customer"
	RelationshipOther       = "other"

	// Legacy data-entry defect marker seen in imported manager fields.
	UnknownManagerID = "unknown"
)
