package catalog

import "kaamsetu/internal/model"

var defaultCategories = []model.Category{
	{Name: "Cleaning", Icon: "fa-broom"},
	{Name: "AC/Appliance", Icon: "fa-snowflake"},
	{Name: "Electrician", Icon: "fa-bolt"},
	{Name: "Plumbing", Icon: "fa-faucet"},
	{Name: "Carpenter", Icon: "fa-hammer"},
}

var defaultServices = []model.Service{
	{ID: 1, Category: "Cleaning", Title: "Deep Home Cleaning", Rating: 4.8, Price: "₹499",
		Description: "Complete home sanitization using industrial grade cleaners.",
		Image:       "https://images.unsplash.com/photo-1581578731117-104f2a863cc5?w=500&q=80"},
	{ID: 2, Category: "Cleaning", Title: "Bathroom Cleaning", Rating: 4.6, Price: "₹299",
		Description: "Acid-free cleaning for tiles and sanitary ware.",
		Image:       "https://images.unsplash.com/photo-1584622650111-993a426fbf0a?w=500&q=80"},
	{ID: 3, Category: "AC/Appliance", Title: "AC Master Service", Rating: 4.9, Price: "₹599",
		Description: "Jet pump cleaning and gas pressure check.",
		Image:       "https://images.unsplash.com/photo-1621905476059-5f812b7a92b4?w=500&q=80"},
	{ID: 4, Category: "Electrician", Title: "Fan Installation", Rating: 4.5, Price: "₹199",
		Description: "Secure installation of ceiling or wall fans.",
		Image:       "https://images.unsplash.com/photo-1621905476059-5f812b7a92b4?w=500&q=80"},
	{ID: 5, Category: "Plumbing", Title: "Tap Repair", Rating: 4.4, Price: "₹149",
		Description: "Fix leaking taps and washers instantly.",
		Image:       "https://images.unsplash.com/photo-1504148455328-c376907d081c?w=500&q=80"},
	{ID: 6, Category: "Carpenter", Title: "Furniture Assembly", Rating: 4.7, Price: "₹349",
		Description: "Expert assembly for beds, tables, and chairs.",
		Image:       "https://images.unsplash.com/photo-1621905476059-5f812b7a92b4?w=500&q=80"},
}

// NewStatic returns the built-in catalog
func NewStatic() Provider {
	return New(defaultCategories, defaultServices)
}
