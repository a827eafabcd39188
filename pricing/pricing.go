// Package pricing holds the order-pricing rules: delivery cost by
// distance, the free-gift promotion and the pickup discount. All amounts
// are whole rubles.
package pricing

import "math"

const (
	// Delivery is free inside this radius from the restaurant.
	FreeDeliveryRadiusKm = 2.0
	// Outside the radius: base + per-km, capped.
	DeliveryBaseCost  = 100
	DeliveryCostPerKm = 25
	DeliveryCostCap   = 500

	// Product subtotal unlocking one complimentary item, inclusive.
	GiftThreshold = 2500

	// Pickup orders get this percent off the product subtotal.
	PickupDiscountPercent = 10
)

type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// DeliveryCost returns the delivery fee for a resolved distance.
// sameAddress marks an address that resolved to the restaurant itself.
func DeliveryCost(distanceKm float64, sameAddress bool) (cost int, isFree bool) {
	if sameAddress || distanceKm <= FreeDeliveryRadiusKm {
		return 0, true
	}
	cost = DeliveryBaseCost + DeliveryCostPerKm*int(math.Ceil(distanceKm))
	if cost > DeliveryCostCap {
		cost = DeliveryCostCap
	}
	return cost, false
}

// GiftProgress reports promotion state for a product subtotal. The
// threshold is inclusive; remaining is zero once eligible.
func GiftProgress(subtotal int) (eligible bool, remaining int) {
	if subtotal >= GiftThreshold {
		return true, 0
	}
	return false, GiftThreshold - subtotal
}

// PickupDiscount is 10% of the subtotal, pickup orders only. Delivery
// never discounts.
func PickupDiscount(subtotal int, fulfillment FulfillmentType) int {
	if fulfillment != FulfillmentPickup {
		return 0
	}
	return subtotal * PickupDiscountPercent / 100
}

// Totals is the final pricing breakdown attached to an order. Exactly one
// of PickupDiscount / DeliveryCost may be non-zero, by fulfillment type.
type Totals struct {
	ProductsTotal  int  `json:"products_total"`
	PickupDiscount int  `json:"pickup_discount"`
	DeliveryCost   int  `json:"delivery_cost"`
	FinalTotal     int  `json:"final_total"`
	GiftEligible   bool `json:"gift_eligible"`
}

// Calculate applies the pricing formula:
// finalTotal = productsTotal - pickupDiscount + deliveryCost.
// deliveryCost is ignored for pickup orders.
func Calculate(productsTotal int, fulfillment FulfillmentType, deliveryCost int) Totals {
	t := Totals{ProductsTotal: productsTotal}
	if fulfillment == FulfillmentPickup {
		t.PickupDiscount = PickupDiscount(productsTotal, fulfillment)
	} else {
		t.DeliveryCost = deliveryCost
	}
	t.FinalTotal = productsTotal - t.PickupDiscount + t.DeliveryCost
	t.GiftEligible, _ = GiftProgress(productsTotal)
	return t
}
