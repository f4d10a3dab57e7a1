package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderNumberLayout = "20060102150405"

// GenerateOrderNumber formats t as yyyyMMddHHmmss followed by four random digits.
func GenerateOrderNumber(t time.Time) string {
	return t.Format(orderNumberLayout) + fmt.Sprintf("%04d", rand.IntN(10000))
}
