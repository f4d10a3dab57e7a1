package handler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondhand/internal/errors"
)

func TestDecodeProductPayload_CamelCase(t *testing.T) {
	in, err := DecodeProductPayload(map[string]interface{}{
		"name":               "  Road bike ",
		"sellerId":           float64(7),
		"categoryId":         "3",
		"price":              "12.50",
		"originalPrice":      float64(20),
		"stock":              "2",
		"images":             []interface{}{"a.png", "b.png"},
		"usedDuration":       "1 year",
		"purchaseDate":       "2023-04-05",
		"faceToFace":         true,
		"delivery":           false,
		"faceToFaceLocation": "Central park",
		"status":             "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "Road bike", in.Name)
	assert.Equal(t, uint(7), in.SellerID)
	assert.Equal(t, uint(3), in.CategoryID)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, in.OriginalPrice.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 2, in.Stock)
	assert.Equal(t, []string{"a.png", "b.png"}, in.Images)
	assert.Equal(t, "1 year", in.UsedDuration)
	require.NotNil(t, in.PurchaseDate)
	assert.Equal(t, 2023, in.PurchaseDate.Year())
	assert.Equal(t, time.April, in.PurchaseDate.Month())
	assert.Equal(t, 5, in.PurchaseDate.Day())
	assert.True(t, in.FaceToFace)
	assert.False(t, in.Delivery)
	assert.Equal(t, "Central park", in.FaceToFaceLocation)
	require.NotNil(t, in.Status)
	assert.False(t, *in.Status)
}

func TestDecodeProductPayload_SnakeCase(t *testing.T) {
	in, err := DecodeProductPayload(map[string]interface{}{
		"name":                  "Lamp",
		"seller_id":             float64(9),
		"category_id":           float64(4),
		"price":                 float64(5),
		"original_price":        "8.99",
		"used_duration":         "3 months",
		"purchase_date":         float64(1680652800000),
		"face_to_face":          true,
		"face_to_face_location": "Station",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(9), in.SellerID)
	assert.Equal(t, uint(4), in.CategoryID)
	assert.True(t, in.OriginalPrice.Equal(decimal.RequireFromString("8.99")))
	assert.Equal(t, "3 months", in.UsedDuration)
	require.NotNil(t, in.PurchaseDate)
	assert.Equal(t, time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC), in.PurchaseDate.UTC())
	assert.True(t, in.FaceToFace)
	assert.True(t, in.Delivery, "delivery defaults to true")
	assert.Equal(t, "Station", in.FaceToFaceLocation)
}

func TestDecodeProductPayload_CamelCaseWins(t *testing.T) {
	in, err := DecodeProductPayload(map[string]interface{}{
		"name":         "Desk",
		"categoryId":   float64(1),
		"category_id":  float64(2),
		"faceToFace":   false,
		"face_to_face": true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), in.CategoryID)
	assert.False(t, in.FaceToFace)
}

func TestDecodeProductPayload_SupportMethods(t *testing.T) {
	in, err := DecodeProductPayload(map[string]interface{}{
		"name": "Chair",
		"supportMethods": map[string]interface{}{
			"faceToFace": true,
			"delivery":   false,
		},
	})
	require.NoError(t, err)
	assert.True(t, in.FaceToFace)
	assert.False(t, in.Delivery)
}

func TestDecodeProductPayload_Defaults(t *testing.T) {
	in, err := DecodeProductPayload(map[string]interface{}{"name": "Book"})
	require.NoError(t, err)

	assert.NotNil(t, in.Images)
	assert.Empty(t, in.Images)
	assert.True(t, in.Price.IsZero())
	assert.False(t, in.FaceToFace)
	assert.True(t, in.Delivery)
	assert.Nil(t, in.Status)
	assert.Nil(t, in.PurchaseDate)
}

func TestDecodeProductPayload_ImageStrings(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want []string
	}{
		{"json array string", map[string]interface{}{"images": `["a.png","b.png"]`}, []string{"a.png", "b.png"}},
		{"single url", map[string]interface{}{"images": "one.png"}, []string{"one.png"}},
		{"imagesAsString fallback", map[string]interface{}{"imagesAsString": `["x.png"]`}, []string{"x.png"}},
		{"images wins over imagesAsString", map[string]interface{}{
			"images":         []interface{}{"list.png"},
			"imagesAsString": `["x.png"]`,
		}, []string{"list.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw["name"] = "Item"
			in, err := DecodeProductPayload(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Images)
		})
	}
}

func TestDecodeProductPayload_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"price not a number", map[string]interface{}{"price": "cheap"}},
		{"stock not a number", map[string]interface{}{"stock": "many"}},
		{"purchase date unparseable", map[string]interface{}{"purchaseDate": "someday soon"}},
		{"status not a boolean", map[string]interface{}{"status": "maybe"}},
		{"images not strings", map[string]interface{}{"images": map[string]interface{}{"a": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw["name"] = "Item"
			_, err := DecodeProductPayload(tt.raw)
			require.Error(t, err)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		})
	}
}
