package domain

import "time"

const (
	CheckoutTitle = "Your order is being prepared"
	CheckoutBody  = "Thanks for shopping with us!"
)

type Notification struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	DeliverAt   time.Time  `json:"deliver_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// Due reports whether n should be delivered at now.
func (n Notification) Due(now time.Time) bool {
	return n.DeliveredAt == nil && !now.Before(n.DeliverAt)
}
