package model

// Category groups catalog services
type Category struct {
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

// Service is a read-only catalog offering
type Service struct {
	ID          int     `json:"id" yaml:"id"`
	Category    string  `json:"category" yaml:"category"`
	Title       string  `json:"title" yaml:"title"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Price       string  `json:"price" yaml:"price"`
	Description string  `json:"desc" yaml:"desc"`
	Image       string  `json:"image" yaml:"image"`
}
