package models

// CartItem is one line of a shopping cart. Name, Price and Image are copied from the
// catalog when the line is first added.
type CartItem struct {
	ID       string `json:"id" bson:"id" validate:"required"`
	Name     string `json:"name" bson:"name"`
	Price    int64  `json:"price" bson:"price" validate:"gte=0"`
	Image    string `json:"image" bson:"image"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}
