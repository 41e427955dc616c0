package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestVariant(t *testing.T) Variant {
	t.Helper()
	return Variant{
		Wattage:           "12W",
		Dimensions:        "90x90mm",
		Cutout:            "75mm",
		BeamAngle:         "24°",
		ColorTemperatures: StringList{"3000K", "4000K", "6500K"},
		CRI:               ">90",
		Images:            StringList{"products/spot-12w-white.jpg"},
		Price: VariantPrice{
			ThreeInOne: decimal.NewFromInt(1450),
			TAndD:      decimal.NewFromInt(1250),
			Custom:     decimal.NewFromInt(1650),
		},
		Stock: VariantStock{Quantity: 40, Threshold: 5},
	}
}

func createTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{createTestVariant(t)})
	require.NoError(t, err)
	return product
}

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      StockStatus
	}{
		{"zero quantity is out of stock", 0, 5, StockStatusOutOfStock},
		{"negative quantity is out of stock", -3, 5, StockStatusOutOfStock},
		{"quantity below threshold is low stock", 3, 5, StockStatusLowStock},
		{"quantity equal to threshold is low stock", 5, 5, StockStatusLowStock},
		{"quantity above threshold is in stock", 6, 5, StockStatusInStock},
		{"zero threshold with stock", 1, 0, StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStockStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with derived stock status", func(t *testing.T) {
		product := createTestProduct(t)

		assert.Equal(t, "LED Spotlight", product.Name)
		assert.Equal(t, 1, product.Version)
		require.Len(t, product.Variants, 1)
		assert.Equal(t, 0, product.Variants[0].VariantIndex)
		assert.Equal(t, product.ID, product.Variants[0].ProductID)
		assert.Equal(t, StockStatusInStock, product.Variants[0].Stock.Status)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("  ", "", "", []Variant{createTestVariant(t)})
		assert.Error(t, err)
	})

	t.Run("rejects product without variants", func(t *testing.T) {
		_, err := NewProduct("LED Spotlight", "White", "Aluminium", nil)
		assert.Error(t, err)
	})

	t.Run("rejects variant without wattage", func(t *testing.T) {
		variant := createTestVariant(t)
		variant.Wattage = ""
		_, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{variant})
		assert.Error(t, err)
	})

	t.Run("rejects variant with no price", func(t *testing.T) {
		variant := createTestVariant(t)
		variant.Price = VariantPrice{}
		_, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{variant})
		assert.Error(t, err)
	})

	t.Run("rejects negative stock quantity", func(t *testing.T) {
		variant := createTestVariant(t)
		variant.Stock.Quantity = -1
		_, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{variant})
		assert.Error(t, err)
	})

	t.Run("applies default threshold", func(t *testing.T) {
		variant := createTestVariant(t)
		variant.Stock.Threshold = 0
		variant.Stock.Quantity = 4
		product, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{variant})
		require.NoError(t, err)
		assert.Equal(t, DefaultLowStockThreshold, product.Variants[0].Stock.Threshold)
		assert.Equal(t, StockStatusLowStock, product.Variants[0].Stock.Status)
	})
}

func TestProduct_Update(t *testing.T) {
	t.Run("renumbers variants densely", func(t *testing.T) {
		product := createTestProduct(t)

		first := createTestVariant(t)
		second := createTestVariant(t)
		second.Wattage = "18W"

		err := product.Update("LED Spotlight Pro", "Black", "Aluminium", []Variant{first, second})
		require.NoError(t, err)

		assert.Equal(t, "LED Spotlight Pro", product.Name)
		require.Len(t, product.Variants, 2)
		assert.Equal(t, 0, product.Variants[0].VariantIndex)
		assert.Equal(t, 1, product.Variants[1].VariantIndex)
		assert.Equal(t, 2, product.Version)
	})

	t.Run("rejects removing all variants", func(t *testing.T) {
		product := createTestProduct(t)
		err := product.Update("LED Spotlight", "White", "Aluminium", nil)
		assert.Error(t, err)
	})
}

func TestProduct_VariantAt(t *testing.T) {
	product := createTestProduct(t)

	variant, err := product.VariantAt(0)
	require.NoError(t, err)
	assert.Equal(t, "12W", variant.Wattage)

	_, err = product.VariantAt(1)
	assert.Error(t, err)

	_, err = product.VariantAt(-1)
	assert.Error(t, err)
}

func TestProduct_SetVariantStock(t *testing.T) {
	t.Run("re-derives status on quantity change", func(t *testing.T) {
		product := createTestProduct(t)

		err := product.SetVariantStock(0, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, StockStatusOutOfStock, product.Variants[0].Stock.Status)

		err = product.SetVariantStock(0, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, StockStatusLowStock, product.Variants[0].Stock.Status)
	})

	t.Run("updates threshold when provided", func(t *testing.T) {
		product := createTestProduct(t)

		threshold := 50
		err := product.SetVariantStock(0, 40, &threshold)
		require.NoError(t, err)
		assert.Equal(t, 50, product.Variants[0].Stock.Threshold)
		assert.Equal(t, StockStatusLowStock, product.Variants[0].Stock.Status)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		product := createTestProduct(t)
		err := product.SetVariantStock(0, -1, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown variant", func(t *testing.T) {
		product := createTestProduct(t)
		err := product.SetVariantStock(7, 10, nil)
		assert.Error(t, err)
	})
}

func TestVariantPrice_Resolve(t *testing.T) {
	price := VariantPrice{
		ThreeInOne: decimal.NewFromInt(1450),
		TAndD:      decimal.NewFromInt(1250),
		Custom:     decimal.NewFromInt(1650),
	}

	tests := []struct {
		priceType PriceType
		want      int64
		wantErr   bool
	}{
		{PriceTypeThreeInOne, 1450, false},
		{PriceTypeTAndD, 1250, false},
		{PriceTypeCustom, 1650, false},
		{PriceType("wholesale"), 0, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.priceType), func(t *testing.T) {
			got, err := price.Resolve(tt.priceType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got))
		})
	}
}

func TestProduct_HasStock(t *testing.T) {
	product := createTestProduct(t)

	ok, err := product.HasStock(0, 40)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = product.HasStock(0, 41)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = product.HasStock(3, 1)
	assert.Error(t, err)
}

func TestProduct_AllImages(t *testing.T) {
	first := createTestVariant(t)
	second := createTestVariant(t)
	second.Images = StringList{"products/spot-18w-black.jpg", "products/spot-18w-detail.jpg"}

	product, err := NewProduct("LED Spotlight", "White", "Aluminium", []Variant{first, second})
	require.NoError(t, err)

	images := product.AllImages()
	assert.Len(t, images, 3)
	assert.Contains(t, images, "products/spot-12w-white.jpg")
	assert.Contains(t, images, "products/spot-18w-detail.jpg")
}
