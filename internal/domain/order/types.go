package order

type Status string

const (
	// StatusPending is the only status the pipeline itself assigns.
	// Lifecycle beyond pending belongs to fulfillment workflows.
	StatusPending Status = "pending"
)

func (s Status) String() string {
	return string(s)
}
