package domain

// Action identifies a lifecycle operation for authorization purposes.
// Every permission rule keys off these variants in one place, the
// authorization policy, instead of role strings scattered across layers.
type Action int

const (
	ActionCreate Action = iota
	ActionAccept
	ActionPickup
	ActionStartTransit
	ActionComplete
	ActionCancel
	ActionRelease
	ActionView
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionAccept:
		return "accept"
	case ActionPickup:
		return "pickup"
	case ActionStartTransit:
		return "start transit"
	case ActionComplete:
		return "complete"
	case ActionCancel:
		return "cancel"
	case ActionRelease:
		return "release"
	case ActionView:
		return "view"
	}
	return "unknown"
}
