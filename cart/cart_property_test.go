package cart

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"spicymarket/models"
)

type op struct {
	Kind      int
	ProductID int64
	Quantity  int
}

func genOp() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 2),
		gen.Int64Range(1, 5),
		gen.IntRange(-2, 6),
	).Map(func(v []interface{}) op {
		return op{Kind: v[0].(int), ProductID: v[1].(int64), Quantity: v[2].(int)}
	})
}

// priceOf gives each product id a fixed price in cents.
func priceOf(id int64) decimal.Decimal {
	return decimal.New(id*1999, -2)
}

func TestCartProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	apply := func(ops []op) *Cart {
		c := New()
		for _, o := range ops {
			switch o.Kind {
			case 0:
				c.Add(models.Product{ID: o.ProductID, Price: priceOf(o.ProductID)})
			case 1:
				c.SetQuantity(o.ProductID, o.Quantity)
			case 2:
				c.Remove(o.ProductID)
			}
		}
		return c
	}

	properties.Property("total equals sum of remaining lines", prop.ForAll(
		func(ops []op) bool {
			c := apply(ops)
			want := decimal.Zero
			for _, l := range c.Lines() {
				want = want.Add(priceOf(l.Product.ID).Mul(decimal.NewFromInt(int64(l.Quantity))))
			}
			return c.Total().Equal(want)
		},
		gen.SliceOf(genOp()),
	))

	properties.Property("one positive line per product", prop.ForAll(
		func(ops []op) bool {
			seen := map[int64]bool{}
			for _, l := range apply(ops).Lines() {
				if seen[l.Product.ID] || l.Quantity < 1 {
					return false
				}
				seen[l.Product.ID] = true
			}
			return true
		},
		gen.SliceOf(genOp()),
	))

	properties.TestingRun(t)
}
