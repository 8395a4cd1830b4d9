package cart

// quantityRequest is the absolute-quantity sync the widget sends. Quantity
// zero removes the line, so the field is a pointer: an explicit 0 is valid
// while an absent field is rejected.
type quantityRequest struct {
	ProductID int  `json:"productId" validate:"required,gt=0"`
	Quantity  *int `json:"quantity" validate:"required,gte=0"`
}
