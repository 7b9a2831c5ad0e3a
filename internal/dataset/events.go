package dataset

import (
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpectedEventTypes returns the exact event sequence an order with
// the given final status must carry, in timestamp order. Cancelled
// orders never get a paid event: cancellation precludes payment.
func ExpectedEventTypes(status OrderStatus) []OrderStatus {
	switch status {
	case StatusCancelled:
		return []OrderStatus{StatusCreated, StatusCancelled}
	case StatusDelivered:
		return []OrderStatus{StatusCreated, StatusPaid, StatusShipped, StatusDelivered}
	default:
		return []OrderStatus{StatusCreated, StatusPaid, StatusShipped}
	}
}

func drawStatus(rng *rand.Rand, p Policy) OrderStatus {
	if rng.Float64() < p.CancelledRate {
		return StatusCancelled
	}
	if rng.Float64() < p.DeliveredRate {
		return StatusDelivered
	}
	if rng.Intn(2) == 0 {
		return StatusPaid
	}
	return StatusShipped
}

// eventsForOrder derives the event trail from the order's final status
// and creation time. Offsets are drawn from the policy ranges; since
// the ranges ascend, timestamps come out strictly increasing.
func eventsForOrder(rng *rand.Rand, p Policy, o *Order) []OrderEvent {
	ev := func(typ OrderStatus, at time.Time) OrderEvent {
		return OrderEvent{
			ID:      primitive.NewObjectID(),
			OrderID: o.ID,
			At:      at,
			Type:    typ,
			Payload: bson.M{},
		}
	}
	hours := func(r Range) time.Duration {
		return time.Duration(randInt(rng, r.Min, r.Max)) * time.Hour
	}

	events := []OrderEvent{ev(StatusCreated, o.CreatedAt)}
	if o.Status == StatusCancelled {
		return append(events, ev(StatusCancelled, o.CreatedAt.Add(hours(p.CancelledAfter))))
	}

	events = append(events,
		ev(StatusPaid, o.CreatedAt.Add(hours(p.PaidAfter))),
		ev(StatusShipped, o.CreatedAt.Add(hours(p.ShippedAfter))),
	)
	if o.Status == StatusDelivered {
		events = append(events, ev(StatusDelivered, o.CreatedAt.Add(hours(p.DeliveredAfter))))
	}
	return events
}
