package domain

// LineItem is one product entry in the cart with its chosen quantity.
// Field names match the persisted snapshot format.
type LineItem struct {
	ID     int64   `json:"id" bson:"id"`
	Title  string  `json:"title" bson:"title"`
	Price  float64 `json:"price" bson:"price"`
	Image  string  `json:"image" bson:"image"`
	Amount int     `json:"amount" bson:"amount"`
}

// Cart is ordered by first addition.
type Cart []LineItem

// Find returns the index of the item with productID, or -1.
func (c Cart) Find(productID int64) int {
	for i, item := range c {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Sanitize drops items with amount < 1 and repeated ids, keeping the first occurrence.
func (c Cart) Sanitize() Cart {
	seen := make(map[int64]struct{}, len(c))
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.Amount < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
