package backend

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	UnknownSeller = "Unknown"
	Uncategorized = "Uncategorized"
	// sellerLookups bounds concurrent /users/email requests.
	sellerLookups = 8
)

type Product struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"productname"`
	Email       string  `json:"email"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating,omitempty"`
	ImageURL    string  `json:"uri,omitempty"`
}

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Img   string `json:"img,omitempty"`
}

// Listing is a product with its seller's display name.
type Listing struct {
	Product
	Seller string
}

type Category struct {
	Name     string
	Listings []Listing
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, []string{"products"}, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) UserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, []string{"users", "email", email}, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Catalog fetches every product and resolves seller names. A seller that
// cannot be looked up is shown as UnknownSeller; only a failure to list
// products is an error.
func (c *Client) Catalog(ctx context.Context) ([]Category, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}

	var emails []string
	seen := make(map[string]bool)
	for _, p := range products {
		if p.Email != "" && !seen[p.Email] {
			seen[p.Email] = true
			emails = append(emails, p.Email)
		}
	}

	names := make([]string, len(emails))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sellerLookups)
	for i, email := range emails {
		g.Go(func() error {
			user, err := c.UserByEmail(gctx, email)
			if err != nil {
				c.logger.Debug("seller lookup failed", zap.String("email", email), zap.Error(err))
				return nil
			}
			names[i] = user.Name
			return nil
		})
	}
	_ = g.Wait()

	sellers := make(map[string]string, len(emails))
	for i, email := range emails {
		if names[i] != "" {
			sellers[email] = names[i]
		}
	}
	return Group(products, sellers), nil
}

// Group buckets products by category, keeping categories and products in
// the order they first appear.
func Group(products []Product, sellers map[string]string) []Category {
	var categories []Category
	index := make(map[string]int)
	for _, p := range products {
		name := p.Category
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(categories)
			index[name] = i
			categories = append(categories, Category{Name: name})
		}

		seller := sellers[p.Email]
		if seller == "" {
			seller = UnknownSeller
		}
		categories[i].Listings = append(categories[i].Listings, Listing{Product: p, Seller: seller})
	}
	return categories
}
