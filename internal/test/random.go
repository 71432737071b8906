package test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

const skuAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomSKU returns a product id such as "sku-k3v9q2".
func RandomSKU() string {
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = skuAlphabet[randomIntn(len(skuAlphabet))]
	}
	return "sku-" + string(buf)
}

// RandomCartLine returns an in-stock line priced between 1 and maxPrice with quantity 1 to 3.
func RandomCartLine(maxPrice int) model.CartLine {
	if maxPrice < 1 {
		maxPrice = 1
	}
	id := RandomSKU()
	return model.CartLine{
		ProductID: id,
		Name:      "Item " + id,
		UnitPrice: decimal.NewFromInt(int64(1 + randomIntn(maxPrice))),
		Quantity:  1 + randomIntn(3),
	}
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
