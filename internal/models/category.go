package models

// Category labels what an expense was for, e.g. "Food" or "Rent".
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
