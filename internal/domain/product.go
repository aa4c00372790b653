package domain

import "context"

type Product struct {
	ID                string   `json:"_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Price             float64  `json:"price"`
	Image             string   `json:"image,omitempty"`
	Images            []string `json:"images,omitempty"`
	Category          string   `json:"category,omitempty"`
	CountInStock      int      `json:"countInStock"`
	AlcoholPercentage *float64 `json:"alcoholPercentage,omitempty"`
	VolumeMl          *int     `json:"volumeMl,omitempty"`
	IsFeatured        bool     `json:"isFeatured"`
}

// PrimaryImage is the image shown for the product in carts and listings.
func (p Product) PrimaryImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return PlaceholderImage
}

type ProductPage struct {
	Products   []Product `json:"products"`
	TotalPages int       `json:"totalPages"`
}

type ProductQuery struct {
	Page   int
	Limit  int
	Search string
}

// ProductInput is the admin product form payload.
type ProductInput struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	CountInStock      int      `json:"countInStock"`
	Images            []string `json:"images"`
	Category          string   `json:"category"`
	AlcoholPercentage *float64 `json:"alcoholPercentage,omitempty"`
	VolumeMl          *int     `json:"volumeMl,omitempty"`
	IsFeatured        bool     `json:"isFeatured"`
}

type ProductService interface {
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	Get(ctx context.Context, id string) (*Product, error)
}
