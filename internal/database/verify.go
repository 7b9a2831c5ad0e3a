package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-seeder/internal/config"
	"ecommerce-seeder/internal/dataset"
)

// VerifyReport lists every invariant the stored dataset breaks.
type VerifyReport struct {
	Customers int64
	Products  int64
	Orders    int64
	Events    int64

	Failures []string
}

func (r *VerifyReport) OK() bool { return len(r.Failures) == 0 }

func (r *VerifyReport) failf(format string, args ...interface{}) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Verify re-reads the dataset and checks it against the configured
// cardinalities and the generation invariants: email uniqueness, order
// totals, shippedAt consistency, and the status-derived event trails.
func (s *MongoStore) Verify(ctx context.Context, cfg *config.Config) (*VerifyReport, error) {
	rep := &VerifyReport{}

	var err error
	if rep.Customers, err = s.db.Collection(dataset.CollCustomers).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if rep.Products, err = s.db.Collection(dataset.CollProducts).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if rep.Orders, err = s.db.Collection(dataset.CollOrders).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if rep.Events, err = s.db.Collection(dataset.CollEvents).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}

	if rep.Customers != int64(cfg.Counts.Customers) {
		rep.failf("expected %d customers, found %d", cfg.Counts.Customers, rep.Customers)
	}
	if rep.Products != int64(cfg.Counts.Products) {
		rep.failf("expected %d products, found %d", cfg.Counts.Products, rep.Products)
	}
	if rep.Orders != int64(cfg.Counts.Orders) {
		rep.failf("expected %d orders, found %d", cfg.Counts.Orders, rep.Orders)
	}

	emails, err := s.db.Collection(dataset.CollCustomers).Distinct(ctx, "email", bson.D{})
	if err != nil {
		return nil, err
	}
	if int64(len(emails)) != rep.Customers {
		rep.failf("%d customers share emails: %d docs, %d distinct values", rep.Customers-int64(len(emails)), rep.Customers, len(emails))
	}

	statuses, err := s.checkOrders(ctx, rep)
	if err != nil {
		return nil, err
	}
	if err := s.checkEvents(ctx, rep, statuses); err != nil {
		return nil, err
	}

	return rep, nil
}

func (s *MongoStore) checkOrders(ctx context.Context, rep *VerifyReport) (map[primitive.ObjectID]dataset.OrderStatus, error) {
	cursor, err := s.db.Collection(dataset.CollOrders).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	statuses := make(map[primitive.ObjectID]dataset.OrderStatus, rep.Orders)
	for cursor.Next(ctx) {
		var o dataset.Order
		if err := cursor.Decode(&o); err != nil {
			return nil, err
		}
		statuses[o.ID] = o.Status

		total := 0.0
		for _, it := range o.Items {
			total += it.Price * float64(it.Qty)
		}
		if math.Abs(math.Round(total*100)/100-o.Total) > 1e-9 {
			rep.failf("order %s: total %.2f does not match item sum %.2f", o.ID.Hex(), o.Total, total)
		}
		if (o.ShippedAt != nil) == (o.Status == dataset.StatusCancelled) {
			rep.failf("order %s: status %s with shippedAt=%v", o.ID.Hex(), o.Status, o.ShippedAt)
		}
		if len(o.Items) == 0 {
			rep.failf("order %s: no line items", o.ID.Hex())
		}
	}
	return statuses, cursor.Err()
}

func (s *MongoStore) checkEvents(ctx context.Context, rep *VerifyReport, statuses map[primitive.ObjectID]dataset.OrderStatus) error {
	opts := options.Find().SetSort(bson.D{{Key: "orderId", Value: 1}, {Key: "at", Value: 1}})
	cursor, err := s.db.Collection(dataset.CollEvents).Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var (
		current primitive.ObjectID
		types   []dataset.OrderStatus
		lastAt  time.Time
	)
	check := func() {
		if current.IsZero() {
			return
		}
		status, ok := statuses[current]
		if !ok {
			rep.failf("events reference unknown order %s", current.Hex())
			return
		}
		expected := dataset.ExpectedEventTypes(status)
		if len(types) != len(expected) {
			rep.failf("order %s: %d events, expected %d for status %s", current.Hex(), len(types), len(expected), status)
			return
		}
		for i := range expected {
			if types[i] != expected[i] {
				rep.failf("order %s: event %d is %s, expected %s", current.Hex(), i, types[i], expected[i])
				return
			}
		}
	}

	seen := make(map[primitive.ObjectID]struct{}, len(statuses))
	for cursor.Next(ctx) {
		var ev dataset.OrderEvent
		if err := cursor.Decode(&ev); err != nil {
			return err
		}
		if ev.OrderID != current {
			check()
			current = ev.OrderID
			types = types[:0]
			seen[current] = struct{}{}
		} else if !ev.At.After(lastAt) {
			rep.failf("order %s: event timestamps not strictly increasing", current.Hex())
		}
		types = append(types, ev.Type)
		lastAt = ev.At
	}
	check()
	if err := cursor.Err(); err != nil {
		return err
	}

	for id := range statuses {
		if _, ok := seen[id]; !ok {
			rep.failf("order %s has no events", id.Hex())
		}
	}
	return nil
}
