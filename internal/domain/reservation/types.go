package reservation

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusArrived    Status = "arrived"
	StatusSeated     Status = "seated"
	StatusOrdered    Status = "ordered"
	StatusAppetizer  Status = "appetizer"
	StatusEntree     Status = "entree"
	StatusDessert    Status = "dessert"
	StatusPayment    Status = "payment"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusDeclined   Status = "declined"
	StatusNoShow     Status = "no_show"
	StatusWaitlisted Status = "waitlisted"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusArrived, StatusSeated,
		StatusOrdered, StatusAppetizer, StatusEntree, StatusDessert,
		StatusPayment, StatusCompleted, StatusCancelled, StatusDeclined,
		StatusNoShow, StatusWaitlisted:
		return true
	default:
		return false
	}
}

// StatusSet is a whitelist of reservation statuses.
type StatusSet map[Status]struct{}

func NewStatusSet(statuses ...Status) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func (s StatusSet) Contains(status Status) bool {
	_, ok := s[status]
	return ok
}

func (s StatusSet) With(statuses ...Status) StatusSet {
	out := make(StatusSet, len(s)+len(statuses))
	for k := range s {
		out[k] = struct{}{}
	}
	for _, st := range statuses {
		out[st] = struct{}{}
	}
	return out
}

// OccupyingStatuses is the default set of lifecycle states that hold a table.
// Pending, cancelled, declined, no-show, completed and waitlisted reservations
// do not block new bookings unless the caller widens the set explicitly.
func OccupyingStatuses() StatusSet {
	return NewStatusSet(
		StatusConfirmed,
		StatusArrived,
		StatusSeated,
		StatusOrdered,
		StatusAppetizer,
		StatusEntree,
		StatusDessert,
		StatusPayment,
	)
}
