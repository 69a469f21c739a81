package domain

// StockInfo contains stock information for a product
type StockInfo struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}

// Product is the catalog metadata copied into a new LineItem.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// NewLineItem builds a cart entry for p with the given amount.
func (p Product) NewLineItem(amount int) LineItem {
	return LineItem{
		ID:     p.ID,
		Title:  p.Title,
		Price:  p.Price,
		Image:  p.Image,
		Amount: amount,
	}
}
