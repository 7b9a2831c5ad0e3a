package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-seeder/internal/config"
)

type storeCall struct {
	op   string
	coll string
	size int
}

type fakeStore struct {
	calls    []storeCall
	docs     map[string][]interface{}
	failColl string
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string][]interface{}{}}
}

func (f *fakeStore) InsertMany(ctx context.Context, coll string, docs []interface{}) error {
	if coll == f.failColl {
		return errors.New("connection reset by peer")
	}
	f.calls = append(f.calls, storeCall{"insert", coll, len(docs)})
	f.docs[coll] = append(f.docs[coll], docs...)
	return nil
}

func (f *fakeStore) EnsureIndexes(ctx context.Context, coll string) error {
	f.calls = append(f.calls, storeCall{"index", coll, 0})
	return nil
}

func (f *fakeStore) orders() []Order {
	var out []Order
	for _, d := range f.docs[CollOrders] {
		out = append(out, d.(Order))
	}
	return out
}

func (f *fakeStore) events() []OrderEvent {
	var out []OrderEvent
	for _, d := range f.docs[CollEvents] {
		out = append(out, d.(OrderEvent))
	}
	return out
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Counts = config.Counts{Customers: 10, Products: 5, Orders: 20}
	cfg.Batches = config.Batches{Orders: 5, Events: 5}
	cfg.Seed = 42
	return cfg
}

func TestGenerateEndToEnd(t *testing.T) {
	store := newFakeStore()
	cfg := smallConfig()

	rep, err := New(store, cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, rep.Customers)
	assert.Equal(t, 5, rep.Products)
	assert.Equal(t, 20, rep.Orders)
	assert.Len(t, store.docs[CollCustomers], 10)
	assert.Len(t, store.docs[CollProducts], 5)
	assert.Len(t, store.docs[CollOrders], 20)

	// Every order carries at least {created, cancelled} and at most
	// {created, paid, shipped, delivered}.
	assert.GreaterOrEqual(t, rep.Events, 40)
	assert.LessOrEqual(t, rep.Events, 80)
	assert.Len(t, store.docs[CollEvents], rep.Events)

	insertCalls := 0
	for _, c := range store.calls {
		if c.op == "insert" {
			assert.LessOrEqual(t, c.size, 5, "batch for %s exceeds configured size", c.coll)
			insertCalls++
		}
	}
	assert.Equal(t, insertCalls, rep.Batches)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, int64(42), rep.Seed)
}

func TestReferencesResolve(t *testing.T) {
	store := newFakeStore()
	_, err := New(store, smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	customerIDs := map[primitive.ObjectID]bool{}
	for _, d := range store.docs[CollCustomers] {
		customerIDs[d.(Customer).ID] = true
	}
	productIDs := map[primitive.ObjectID]bool{}
	for _, d := range store.docs[CollProducts] {
		productIDs[d.(Product).ID] = true
	}
	orderIDs := map[primitive.ObjectID]bool{}

	for _, o := range store.orders() {
		orderIDs[o.ID] = true
		assert.True(t, customerIDs[o.CustomerID], "order references unknown customer")
		require.NotEmpty(t, o.Items)
		assert.LessOrEqual(t, len(o.Items), 5)
		for _, it := range o.Items {
			assert.True(t, productIDs[it.ProductID], "item references unknown product")
			assert.GreaterOrEqual(t, it.Qty, 1)
			assert.LessOrEqual(t, it.Qty, 4)
		}
	}
	for _, ev := range store.events() {
		assert.True(t, orderIDs[ev.OrderID], "event references unknown order")
	}
}

func TestOrderInvariants(t *testing.T) {
	store := newFakeStore()
	_, err := New(store, smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	for _, o := range store.orders() {
		total := 0.0
		for _, it := range o.Items {
			total += it.Price * float64(it.Qty)
		}
		assert.InDelta(t, total, o.Total, 0.005, "total not the rounded item sum")

		if o.Status == StatusCancelled {
			assert.Nil(t, o.ShippedAt)
		} else {
			require.NotNil(t, o.ShippedAt)
			assert.True(t, o.ShippedAt.After(o.CreatedAt))
		}
	}
}

func TestCustomerAndProductInvariants(t *testing.T) {
	store := newFakeStore()
	_, err := New(store, smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	emails := map[string]bool{}
	for _, d := range store.docs[CollCustomers] {
		c := d.(Customer)
		assert.False(t, emails[c.Email], "duplicate email %s", c.Email)
		emails[c.Email] = true
		assert.Equal(t, "Point", c.Address.Location.Type)
		assert.Len(t, c.Phones, 1)
	}

	for _, d := range store.docs[CollProducts] {
		p := d.(Product)
		require.GreaterOrEqual(t, len(p.Attrs.Sizes), 1)
		require.LessOrEqual(t, len(p.Attrs.Sizes), 4)
		for i, sz := range p.Attrs.Sizes {
			assert.Equal(t, productSizes[i], sz, "sizes must be a prefix of %v", productSizes)
		}
		assert.Greater(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Stock, 0)
	}
}

func TestEventTrailsMatchStatus(t *testing.T) {
	store := newFakeStore()
	_, err := New(store, smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	byOrder := map[primitive.ObjectID][]OrderEvent{}
	for _, ev := range store.events() {
		byOrder[ev.OrderID] = append(byOrder[ev.OrderID], ev)
	}

	for _, o := range store.orders() {
		trail := byOrder[o.ID]
		expected := ExpectedEventTypes(o.Status)
		require.Len(t, trail, len(expected), "order %s status %s", o.ID.Hex(), o.Status)
		for i, ev := range trail {
			assert.Equal(t, expected[i], ev.Type)
			if i > 0 {
				assert.True(t, ev.At.After(trail[i-1].At), "timestamps must strictly increase")
			}
		}
	}
}

func TestDeterministicUnderSeed(t *testing.T) {
	run := func() *fakeStore {
		store := newFakeStore()
		cfg := smallConfig()
		cfg.Counts.Orders = 200
		cfg.Seed = 7
		_, err := New(store, cfg).Generate(context.Background())
		require.NoError(t, err)
		return store
	}
	a, b := run(), run()

	distill := func(s *fakeStore) (map[OrderStatus]int, []float64) {
		statuses := map[OrderStatus]int{}
		var totals []float64
		for _, o := range s.orders() {
			statuses[o.Status]++
			totals = append(totals, o.Total)
		}
		return statuses, totals
	}
	aStatuses, aTotals := distill(a)
	bStatuses, bTotals := distill(b)
	assert.Equal(t, aStatuses, bStatuses)
	assert.Equal(t, aTotals, bTotals)
	assert.Equal(t, len(a.docs[CollEvents]), len(b.docs[CollEvents]))
}

func TestIndexesDeclaredAfterPopulation(t *testing.T) {
	store := newFakeStore()
	_, err := New(store, smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	lastInsert := map[string]int{}
	indexAt := map[string]int{}
	for i, c := range store.calls {
		if c.op == "insert" {
			lastInsert[c.coll] = i
		} else {
			indexAt[c.coll] = i
		}
	}
	for _, coll := range []string{CollCustomers, CollProducts, CollOrders, CollEvents} {
		require.Contains(t, indexAt, coll)
		assert.Greater(t, indexAt[coll], lastInsert[coll], "indexes for %s declared before population", coll)
	}
}

func TestStorageErrorAborts(t *testing.T) {
	store := newFakeStore()
	store.failColl = CollProducts

	_, err := New(store, smallConfig()).Generate(context.Background())
	require.Error(t, err)

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CollProducts, serr.Collection)
	assert.Equal(t, 0, serr.Batch)
	assert.Empty(t, store.docs[CollOrders], "no orders may be written after an aborted phase")
}
