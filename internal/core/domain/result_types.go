package domain

type ApplyAction string

const (
	ActionCreated ApplyAction = "CREATED"
	ActionUpdated ApplyAction = "UPDATED"
	ActionSkipped ApplyAction = "SKIPPED"
	ActionDeleted ApplyAction = "DELETED"
	ActionFailed  ApplyAction = "FAILED"
)

type ApplyResult struct {
	Category Category
	Name     string
	Action   ApplyAction
	ID       int
	Details  string
	Error    error
}
