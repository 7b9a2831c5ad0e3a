package dataset

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollCustomers = "customers"
	CollProducts  = "products"
	CollOrders    = "orders"
	CollEvents    = "order_events"
)

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type GeoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

type Address struct {
	Line1    string   `bson:"line1"`
	City     string   `bson:"city"`
	Location GeoPoint `bson:"location"`
}

type Customer struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Last      string             `bson:"last"`
	Email     string             `bson:"email"`
	Phones    []string           `bson:"phones"`
	Address   Address            `bson:"address"`
	Tags      []string           `bson:"tags"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type ProductAttrs struct {
	Color string   `bson:"color"`
	Sizes []string `bson:"sizes"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id"`
	SKU         string             `bson:"sku"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Brand       string             `bson:"brand"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Description string             `bson:"description"`
	Attrs       ProductAttrs       `bson:"attrs"`
}

type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId"`
	Qty       int                `bson:"qty"`
	// Unit price at order time. Later product price changes must not
	// rewrite historical orders.
	Price float64 `bson:"price"`
}

type Order struct {
	ID                      primitive.ObjectID `bson:"_id"`
	CustomerID              primitive.ObjectID `bson:"customerId"`
	Items                   []OrderItem        `bson:"items"`
	Status                  OrderStatus        `bson:"status"`
	ShippingAddressSnapshot Address            `bson:"shippingAddressSnapshot"`
	Total                   float64            `bson:"total"`
	CreatedAt               time.Time          `bson:"createdAt"`
	ShippedAt               *time.Time         `bson:"shippedAt"`
}

type OrderEvent struct {
	ID      primitive.ObjectID `bson:"_id"`
	OrderID primitive.ObjectID `bson:"orderId"`
	At      time.Time          `bson:"at"`
	Type    OrderStatus        `bson:"type"`
	Payload bson.M             `bson:"payload"`
}
