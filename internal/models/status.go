package models

// Order lifecycle.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Reservation lifecycle.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationSeated    = "seated"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationNoShow    = "no_show"
)

var orderTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed},
	OrderServed:    {OrderCompleted},
}

var reservationTransitions = map[string][]string{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationSeated, ReservationCancelled, ReservationNoShow},
	ReservationSeated:    {ReservationCompleted},
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransitionOrder reports whether an order may move from one status
// to another. Unknown statuses never transition.
func CanTransitionOrder(from, to string) bool {
	return contains(orderTransitions[from], to)
}

// CanTransitionReservation reports whether a reservation may move from
// one status to another.
func CanTransitionReservation(from, to string) bool {
	return contains(reservationTransitions[from], to)
}

// OrderTerminal reports whether the status ends the order lifecycle.
func OrderTerminal(status string) bool {
	return status == OrderCompleted || status == OrderCancelled
}
