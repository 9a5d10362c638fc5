package models

// OrderStatus is a stage in the order fulfillment lifecycle.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPacked         OrderStatus = "packed"
	OrderShipped        OrderStatus = "shipped"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// orderRank orders the forward path. Cancelled sits outside it.
var orderRank = map[OrderStatus]int{
	OrderPending:        0,
	OrderConfirmed:      1,
	OrderPacked:         2,
	OrderShipped:        3,
	OrderOutForDelivery: 4,
	OrderDelivered:      5,
}

var cancellable = map[OrderStatus]bool{
	OrderPending:   true,
	OrderConfirmed: true,
	OrderPacked:    true,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderRank[s]
	return ok || s == OrderCancelled
}

// Terminal reports whether no further transitions leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return cancellable[s]
}

// CanAdvance reports whether an admin may move an order from one status to another along
// the forward path. Steps may be skipped; moving backwards is not allowed. A repeated
// delivered transition is accepted so confirmations stay idempotent.
func CanAdvance(from, to OrderStatus) bool {
	if from == OrderDelivered && to == OrderDelivered {
		return true
	}
	if from.Terminal() {
		return false
	}
	fromRank, ok := orderRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
