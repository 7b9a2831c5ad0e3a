package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-seeder/internal/config"
)

// Store is the slice of the document store the generator needs:
// ordered bulk inserts and idempotent index declarations.
type Store interface {
	InsertMany(ctx context.Context, collection string, docs []interface{}) error
	EnsureIndexes(ctx context.Context, collection string) error
}

var productColors = []string{"negro", "blanco", "rojo", "azul", "verde"}
var productSizes = []string{"S", "M", "L", "XL"}

// Generator produces one immutable synthetic dataset per run:
// customers, then products, then orders with their events. The phase
// order is load-bearing, orders sample ids from the earlier pools.
type Generator struct {
	Policy Policy
	Log    zerolog.Logger

	store Store
	cfg   *config.Config
}

func New(store Store, cfg *config.Config) *Generator {
	return &Generator{
		Policy: DefaultPolicy(),
		Log:    zerolog.Nop(),
		store:  store,
		cfg:    cfg,
	}
}

type customerRef struct {
	id   primitive.ObjectID
	addr Address
}

func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	seed := g.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	rep := &Report{RunID: uuid.NewString(), Seed: seed}
	// Per-flush latencies, 1us..10s at 3 significant figures.
	hist := hdrhistogram.New(1, 10000000000, 3)
	start := time.Now()

	customers, err := g.generateCustomers(ctx, rng, hist, rep)
	if err != nil {
		return nil, err
	}
	productIDs, prices, err := g.generateProducts(ctx, rng, hist, rep)
	if err != nil {
		return nil, err
	}
	if err := g.generateOrders(ctx, rng, hist, rep, customers, productIDs, prices); err != nil {
		return nil, err
	}

	rep.Duration = time.Since(start)
	rep.InsertP50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	rep.InsertP95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
	rep.InsertP99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond

	g.Log.Info().
		Str("run", rep.RunID).
		Int("customers", rep.Customers).
		Int("products", rep.Products).
		Int("orders", rep.Orders).
		Int("events", rep.Events).
		Int("batches", rep.Batches).
		Dur("took", rep.Duration).
		Msg("dataset generated")

	return rep, nil
}

func (g *Generator) flush(ctx context.Context, hist *hdrhistogram.Histogram, rep *Report, coll string, batch int, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	started := time.Now()
	if err := g.store.InsertMany(ctx, coll, docs); err != nil {
		return &StorageError{Collection: coll, Batch: batch, Err: err}
	}
	hist.RecordValue(time.Since(started).Microseconds())
	rep.Batches++
	return nil
}

func (g *Generator) generateCustomers(ctx context.Context, rng *rand.Rand, hist *hdrhistogram.Histogram, rep *Report) ([]customerRef, error) {
	n := g.cfg.Counts.Customers
	size := g.cfg.Batches.Orders
	cities := g.cfg.Catalogs.Cities

	refs := make([]customerRef, 0, n)
	batch := make([]interface{}, 0, size)
	batchIdx := 0

	for i := 0; i < n; i++ {
		city := cities[rng.Intn(len(cities))]
		c := Customer{
			ID:     primitive.NewObjectID(),
			Name:   fmt.Sprintf("Nombre%d", i),
			Last:   fmt.Sprintf("Apellido%d", i),
			Email:  fmt.Sprintf("user%d@demo.test", i),
			Phones: []string{fmt.Sprintf("+502%d", randInt(rng, 10000000, 99999999))},
			Address: Address{
				Line1:    fmt.Sprintf("Calle %d #%d", randInt(rng, 1, 2000), randInt(rng, 1, 200)),
				City:     city.Name,
				Location: GeoPoint{Type: "Point", Coordinates: city.Loc},
			},
			Tags:      []string{},
			CreatedAt: randDay(rng, g.Policy.CustomerYear),
		}
		if rng.Float64() < g.Policy.VIPRate {
			c.Tags = append(c.Tags, "vip")
		}

		refs = append(refs, customerRef{id: c.ID, addr: c.Address})
		batch = append(batch, c)
		if len(batch) == size {
			if err := g.flush(ctx, hist, rep, CollCustomers, batchIdx, batch); err != nil {
				return nil, err
			}
			batchIdx++
			batch = make([]interface{}, 0, size)
		}
	}
	if err := g.flush(ctx, hist, rep, CollCustomers, batchIdx, batch); err != nil {
		return nil, err
	}
	if err := g.store.EnsureIndexes(ctx, CollCustomers); err != nil {
		return nil, err
	}

	rep.Customers = n
	g.Log.Debug().Int("count", n).Msg("customers flushed")
	return refs, nil
}

func (g *Generator) generateProducts(ctx context.Context, rng *rand.Rand, hist *hdrhistogram.Histogram, rep *Report) ([]primitive.ObjectID, map[primitive.ObjectID]float64, error) {
	n := g.cfg.Counts.Products
	size := g.cfg.Batches.Orders
	cats := g.cfg.Catalogs

	ids := make([]primitive.ObjectID, 0, n)
	prices := make(map[primitive.ObjectID]float64, n)
	batch := make([]interface{}, 0, size)
	batchIdx := 0

	for i := 0; i < n; i++ {
		p := Product{
			ID:          primitive.NewObjectID(),
			SKU:         fmt.Sprintf("SKU%d", 100000+i),
			Name:        fmt.Sprintf("Producto %d", i),
			Category:    cats.Categories[rng.Intn(len(cats.Categories))],
			Brand:       cats.Brands[rng.Intn(len(cats.Brands))],
			Price:       float64(randInt(rng, 10, 1500)) + 0.99,
			Stock:       randInt(rng, 0, 500),
			Description: fmt.Sprintf("Descripción del producto %d con características variadas y útiles", i),
			Attrs: ProductAttrs{
				Color: productColors[rng.Intn(len(productColors))],
				Sizes: productSizes[:randInt(rng, 1, 4)],
			},
		}

		ids = append(ids, p.ID)
		prices[p.ID] = p.Price
		batch = append(batch, p)
		if len(batch) == size {
			if err := g.flush(ctx, hist, rep, CollProducts, batchIdx, batch); err != nil {
				return nil, nil, err
			}
			batchIdx++
			batch = make([]interface{}, 0, size)
		}
	}
	if err := g.flush(ctx, hist, rep, CollProducts, batchIdx, batch); err != nil {
		return nil, nil, err
	}
	if err := g.store.EnsureIndexes(ctx, CollProducts); err != nil {
		return nil, nil, err
	}

	rep.Products = n
	g.Log.Debug().Int("count", n).Msg("products flushed")
	return ids, prices, nil
}

func (g *Generator) generateOrders(ctx context.Context, rng *rand.Rand, hist *hdrhistogram.Histogram, rep *Report, customers []customerRef, productIDs []primitive.ObjectID, prices map[primitive.ObjectID]float64) error {
	n := g.cfg.Counts.Orders
	orderSize := g.cfg.Batches.Orders
	eventSize := g.cfg.Batches.Events

	orders := make([]interface{}, 0, orderSize)
	events := make([]interface{}, 0, eventSize)
	orderBatch, eventBatch := 0, 0

	for i := 0; i < n; i++ {
		cust := customers[rng.Intn(len(customers))]

		items := make([]OrderItem, 0, 5)
		total := 0.0
		for k := randInt(rng, 1, 5); k > 0; k-- {
			pid := productIDs[rng.Intn(len(productIDs))]
			// Price snapshot comes from the in-memory table built in
			// the product phase, not from a store read.
			price, ok := prices[pid]
			if !ok {
				return &ReferentialError{Collection: CollProducts, ID: pid.Hex()}
			}
			qty := randInt(rng, 1, 4)
			total += price * float64(qty)
			items = append(items, OrderItem{ProductID: pid, Qty: qty, Price: price})
		}

		createdAt := randMinute(rng, g.Policy.OrderYear)
		status := drawStatus(rng, g.Policy)
		var shippedAt *time.Time
		if status != StatusCancelled {
			t := createdAt.AddDate(0, 0, randInt(rng, g.Policy.ShippedAtDays.Min, g.Policy.ShippedAtDays.Max))
			shippedAt = &t
		}

		o := Order{
			ID:                      primitive.NewObjectID(),
			CustomerID:              cust.id,
			Items:                   items,
			Status:                  status,
			ShippingAddressSnapshot: cust.addr,
			Total:                   math.Round(total*100) / 100,
			CreatedAt:               createdAt,
			ShippedAt:               shippedAt,
		}

		orders = append(orders, o)
		if len(orders) == orderSize {
			if err := g.flush(ctx, hist, rep, CollOrders, orderBatch, orders); err != nil {
				return err
			}
			orderBatch++
			orders = make([]interface{}, 0, orderSize)
		}

		for _, ev := range eventsForOrder(rng, g.Policy, &o) {
			events = append(events, ev)
			rep.Events++
			if len(events) == eventSize {
				if err := g.flush(ctx, hist, rep, CollEvents, eventBatch, events); err != nil {
					return err
				}
				eventBatch++
				events = make([]interface{}, 0, eventSize)
			}
		}
		rep.Orders++
	}

	if err := g.flush(ctx, hist, rep, CollOrders, orderBatch, orders); err != nil {
		return err
	}
	if err := g.flush(ctx, hist, rep, CollEvents, eventBatch, events); err != nil {
		return err
	}
	if err := g.store.EnsureIndexes(ctx, CollOrders); err != nil {
		return err
	}
	if err := g.store.EnsureIndexes(ctx, CollEvents); err != nil {
		return err
	}

	g.Log.Debug().Int("count", n).Msg("orders and events flushed")
	return nil
}

// randInt returns a uniform integer in [min, max].
func randInt(rng *rand.Rand, min, max int) int {
	return rng.Intn(max-min+1) + min
}

// randDay picks a uniform day within the year, capped at day 28 so
// every month is a valid draw.
func randDay(rng *rand.Rand, year int) time.Time {
	return time.Date(year, time.Month(randInt(rng, 1, 12)), randInt(rng, 1, 28), 0, 0, 0, 0, time.UTC)
}

func randMinute(rng *rand.Rand, year int) time.Time {
	return time.Date(year, time.Month(randInt(rng, 1, 12)), randInt(rng, 1, 28),
		randInt(rng, 0, 23), randInt(rng, 0, 59), 0, 0, time.UTC)
}
