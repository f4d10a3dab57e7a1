package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"secondhand/internal/errors"
	"secondhand/internal/model"
	"secondhand/internal/service"
)

// supportMethods is the nested delivery options object some clients send.
type supportMethods struct {
	FaceToFace *bool `mapstructure:"faceToFace"`
	Delivery   *bool `mapstructure:"delivery"`
}

// productPayload mirrors every spelling clients use for a listing.
// camelCase wins over snake_case when both are present.
type productPayload struct {
	Name                    string          `mapstructure:"name"`
	SellerID                *uint           `mapstructure:"sellerId"`
	SellerIDSnake           *uint           `mapstructure:"seller_id"`
	CategoryID              *uint           `mapstructure:"categoryId"`
	CategoryIDSnake         *uint           `mapstructure:"category_id"`
	Price                   interface{}     `mapstructure:"price"`
	OriginalPrice           interface{}     `mapstructure:"originalPrice"`
	OriginalPriceSnake      interface{}     `mapstructure:"original_price"`
	Stock                   *int            `mapstructure:"stock"`
	Images                  interface{}     `mapstructure:"images"`
	ImagesAsString          string          `mapstructure:"imagesAsString"`
	Description             string          `mapstructure:"description"`
	Condition               string          `mapstructure:"condition"`
	UsedDuration            string          `mapstructure:"usedDuration"`
	UsedDurationSnake       string          `mapstructure:"used_duration"`
	Brand                   string          `mapstructure:"brand"`
	PurchaseDate            interface{}     `mapstructure:"purchaseDate"`
	PurchaseDateSnake       interface{}     `mapstructure:"purchase_date"`
	FaceToFace              *bool           `mapstructure:"faceToFace"`
	FaceToFaceSnake         *bool           `mapstructure:"face_to_face"`
	Delivery                *bool           `mapstructure:"delivery"`
	FaceToFaceLocation      string          `mapstructure:"faceToFaceLocation"`
	FaceToFaceLocationSnake string          `mapstructure:"face_to_face_location"`
	SupportMethods          *supportMethods `mapstructure:"supportMethods"`
	Status                  interface{}     `mapstructure:"status"`
}

// DecodeProductPayload normalizes a loosely typed listing body into the
// canonical input. Numbers may arrive as strings, images as a list or a
// JSON-encoded string, and purchase dates as text or epoch milliseconds.
func DecodeProductPayload(raw map[string]interface{}) (service.ProductInput, error) {
	var p productPayload
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return service.ProductInput{}, errors.Internal("build product decoder", err)
	}
	if err := dec.Decode(raw); err != nil {
		return service.ProductInput{}, errors.Validation("invalid product payload: " + unwrapDecodeError(err))
	}

	in := service.ProductInput{
		Name:               strings.TrimSpace(p.Name),
		SellerID:           firstUint(p.SellerID, p.SellerIDSnake),
		CategoryID:         firstUint(p.CategoryID, p.CategoryIDSnake),
		Description:        p.Description,
		Condition:          p.Condition,
		UsedDuration:       firstString(p.UsedDuration, p.UsedDurationSnake),
		Brand:              p.Brand,
		FaceToFaceLocation: firstString(p.FaceToFaceLocation, p.FaceToFaceLocationSnake),
	}
	if p.Stock != nil {
		in.Stock = *p.Stock
	}

	if in.Price, err = parseDecimal("price", p.Price); err != nil {
		return in, err
	}
	original := p.OriginalPrice
	if original == nil {
		original = p.OriginalPriceSnake
	}
	if in.OriginalPrice, err = parseDecimal("originalPrice", original); err != nil {
		return in, err
	}

	images := p.Images
	if images == nil && p.ImagesAsString != "" {
		images = p.ImagesAsString
	}
	if in.Images, err = parseImages(images); err != nil {
		return in, err
	}

	purchase := p.PurchaseDate
	if purchase == nil {
		purchase = p.PurchaseDateSnake
	}
	if in.PurchaseDate, err = parseDate(purchase); err != nil {
		return in, err
	}

	var nestedF2F, nestedDelivery *bool
	if p.SupportMethods != nil {
		nestedF2F, nestedDelivery = p.SupportMethods.FaceToFace, p.SupportMethods.Delivery
	}
	in.FaceToFace = firstBool(false, p.FaceToFace, p.FaceToFaceSnake, nestedF2F)
	in.Delivery = firstBool(true, p.Delivery, nestedDelivery)

	if p.Status != nil {
		online, err := cast.ToBoolE(p.Status)
		if err != nil {
			return in, errors.Validation("status must be a boolean")
		}
		in.Status = &online
	}
	return in, nil
}

func unwrapDecodeError(err error) string {
	if me, ok := err.(*mapstructure.Error); ok && len(me.Errors) > 0 {
		return me.Errors[0]
	}
	return err.Error()
}

func firstUint(vals ...*uint) uint {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(def bool, vals ...*bool) bool {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return def
}

func parseDecimal(field string, v interface{}) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, errors.Validation(field + " must be a number")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Validation(field + " must be a number")
	}
	return d, nil
}

func parseImages(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return model.ParseStringList(val), nil
	default:
		list, err := cast.ToStringSliceE(val)
		if err != nil {
			return nil, errors.Validation("images must be a list of strings")
		}
		return list, nil
	}
}

// parseDate accepts epoch milliseconds or any common date layout.
func parseDate(v interface{}) (*time.Time, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return nil, nil
		}
		if ms, err := cast.ToInt64E(val); err == nil {
			t := time.UnixMilli(ms)
			return &t, nil
		}
		t, err := dateparse.ParseAny(val)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("purchaseDate %q is not a date", val))
		}
		return &t, nil
	default:
		ms, err := cast.ToInt64E(val)
		if err != nil {
			return nil, errors.Validation("purchaseDate must be a date")
		}
		t := time.UnixMilli(ms)
		return &t, nil
	}
}
