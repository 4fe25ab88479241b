package order

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipping, StatusCancelled},
	StatusShipping:  {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to the
// next. Delivered and cancelled orders are final.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s.
func NextStatuses(s Status) []Status {
	return append([]Status(nil), transitions[s]...)
}
