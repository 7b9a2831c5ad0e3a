package dataset

// Range is an inclusive integer interval sampled uniformly.
type Range struct {
	Min int
	Max int
}

// Policy holds the tunable randomization constants of a generation
// run. The defaults reproduce the distributions the course analytics
// were calibrated against, so overriding them outside of tests will
// skew any drop-off-rate numbers derived from the events.
type Policy struct {
	// Status draw: CancelledRate first, then DeliveredRate among the
	// remainder, then a uniform pick between paid and shipped.
	CancelledRate float64
	DeliveredRate float64

	VIPRate float64

	CustomerYear int
	OrderYear    int

	// Event offsets in hours after order creation. The ranges are
	// disjoint and ascending, which is what keeps event timestamps
	// strictly increasing per order.
	PaidAfter      Range
	ShippedAfter   Range
	DeliveredAfter Range
	CancelledAfter Range

	// shippedAt field offset in days, non-cancelled orders only.
	ShippedAtDays Range
}

func DefaultPolicy() Policy {
	return Policy{
		CancelledRate:  0.08,
		DeliveredRate:  0.70,
		VIPRate:        0.25,
		CustomerYear:   2022,
		OrderYear:      2023,
		PaidAfter:      Range{1, 3},
		ShippedAfter:   Range{4, 36},
		DeliveredAfter: Range{48, 240},
		CancelledAfter: Range{1, 48},
		ShippedAtDays:  Range{1, 10},
	}
}
