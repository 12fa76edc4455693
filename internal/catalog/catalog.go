// Package catalog provides the read-only list of bookable services.
package catalog

import (
	"kaamsetu/internal/model"
)

// Provider exposes the service catalog. Implementations must return copies so
// callers cannot mutate the underlying data.
type Provider interface {
	Categories() []model.Category
	Services() []model.Service
	Featured(n int) []model.Service
	ByCategory(name string) []model.Service
	Service(id int) (model.Service, bool)
}

type memoryCatalog struct {
	categories []model.Category
	services   []model.Service
}

// New creates a Provider over the given categories and services
func New(categories []model.Category, services []model.Service) Provider {
	c := &memoryCatalog{
		categories: make([]model.Category, len(categories)),
		services:   make([]model.Service, len(services)),
	}
	copy(c.categories, categories)
	copy(c.services, services)
	return c
}

func (c *memoryCatalog) Categories() []model.Category {
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *memoryCatalog) Services() []model.Service {
	out := make([]model.Service, len(c.services))
	copy(out, c.services)
	return out
}

// Featured returns the first n services in catalog order
func (c *memoryCatalog) Featured(n int) []model.Service {
	if n < 0 {
		n = 0
	}
	if n > len(c.services) {
		n = len(c.services)
	}
	out := make([]model.Service, n)
	copy(out, c.services[:n])
	return out
}

func (c *memoryCatalog) ByCategory(name string) []model.Service {
	out := []model.Service{}
	for _, s := range c.services {
		if s.Category == name {
			out = append(out, s)
		}
	}
	return out
}

func (c *memoryCatalog) Service(id int) (model.Service, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return model.Service{}, false
}
