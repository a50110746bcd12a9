package fakers

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/services"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var origins = []string{"Ethiopia", "Kenya", "Ghana", "Morocco", "Senegal", "Tanzania", "Uganda", "Rwanda"}

func UserFaker() services.UserInput {
	return services.UserInput{
		Name:  faker.Name(),
		Email: strings.ToLower(faker.Email()),
		Role:  models.RoleStaff,
	}
}

// CategoryFaker returns a category input with a title unique enough for
// repeated seeding.
func CategoryFaker(parentID string) services.CategoryInput {
	return services.CategoryInput{
		Title:       truncate(capitalize(faker.Word())+" "+shortID(), 50),
		Description: truncate(faker.Sentence(), 500),
		ParentID:    parentID,
	}
}

func ProductFaker(categoryID string) services.ProductInput {
	return services.ProductInput{
		Title:       truncate(faker.Name()+" "+shortID(), 50),
		Description: faker.Paragraph() + " " + uuid.NewString(),
		Origin:      truncate(origins[rand.Intn(len(origins))]+"-"+shortID(), 20),
		CategoryID:  categoryID,
	}
}

func ItemFaker(productID string) services.ItemInput {
	return services.ItemInput{
		ProductID:    productID,
		Price:        decimal.NewFromFloat(fakePrice()).Round(2),
		Sku:          strings.ToUpper(shortID()),
		Barcode:      uint64(rand.Int63n(int64(math.Pow10(13))-1)) + 1,
		Stars:        decimal.NewFromFloat(rand.Float64() * 5).Truncate(2),
		Manufactured: rand.Intn(2) == 1,
	}
}

// BatchFaker produces a batch manufactured in the last month that expires
// within the coming year.
func BatchFaker(itemID, userID string, now time.Time) services.BatchInput {
	manufactured := now.AddDate(0, 0, -rand.Intn(30)-1)
	return services.BatchInput{
		ItemID:         itemID,
		CreatedBy:      userID,
		Quantity:       rand.Intn(20) + 1,
		ManufacturedOn: manufactured,
		ExpireOn:       manufactured.AddDate(0, rand.Intn(12)+1, 0),
	}
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(3)+1), 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}

func shortID() string {
	return uuid.NewString()[:8]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
