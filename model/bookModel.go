// model/bookModel.go
package model

// SpecialDemandCategory is assigned to books created from approved
// special requests.
const SpecialDemandCategory = "Special Demand"

type Book struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int64   `json:"stock"`
}
