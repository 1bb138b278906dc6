package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"spicymarket/cart"
	"spicymarket/models"
	"spicymarket/storage"
)

type checkoutTestContext struct {
	ctx      context.Context
	kv       *storage.MemoryKV
	store    *storage.Store
	svc      *Service
	clock    time.Time
	username string
	cart     *cart.Cart
	placed   []models.Order
	err      error
}

func (c *checkoutTestContext) reset() error {
	c.ctx = context.Background()
	c.kv = storage.NewMemoryKV()
	store, err := storage.NewStore(c.kv, nil)
	if err != nil {
		return err
	}
	c.store = store
	c.clock = time.Date(2024, 5, 29, 16, 26, 40, 0, time.UTC)
	c.svc = NewService(store, nil, WithClock(func() time.Time {
		c.clock = c.clock.Add(time.Second)
		return c.clock
	}))
	c.username = ""
	c.cart = cart.New()
	c.placed = nil
	c.err = nil
	return nil
}

func (c *checkoutTestContext) theDefaultCatalog() error {
	_, err := c.store.SeedProducts(c.ctx)
	return err
}

func (c *checkoutTestContext) iAmSignedInAs(username string) error {
	c.username = username
	return nil
}

func (c *checkoutTestContext) iAddProductToMyCart(id int) error {
	p, err := c.store.Product(c.ctx, int64(id))
	if err != nil {
		return err
	}
	c.cart.Add(p)
	return nil
}

func (c *checkoutTestContext) iSetTheQuantityOfProductTo(id, n int) error {
	c.cart.SetQuantity(int64(id), n)
	return nil
}

func (c *checkoutTestContext) myCartHasLines(n int) error {
	if c.cart.Len() != n {
		return fmt.Errorf("expected %d lines, got %d", n, c.cart.Len())
	}
	return nil
}

func (c *checkoutTestContext) myCartTotalIs(want string) error {
	if !c.cart.Total().Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected total %s, got %s", want, c.cart.Total())
	}
	return nil
}

func (c *checkoutTestContext) iPlaceMyOrder() error {
	o, err := c.svc.PlaceOrder(c.ctx, c.username, c.cart)
	c.err = err
	if err == nil {
		c.placed = append(c.placed, o)
	}
	return nil
}

func (c *checkoutTestContext) iHavePlacedOrders(n int) error {
	for i := 0; i < n; i++ {
		if err := c.iAddProductToMyCart(1); err != nil {
			return err
		}
		if err := c.iPlaceMyOrder(); err != nil {
			return err
		}
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsPlaced() error {
	if c.err != nil {
		return fmt.Errorf("expected order to be placed, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsRejectedBecauseTheCartIsEmpty() error {
	if !errors.Is(c.err, ErrEmptyCart) {
		return fmt.Errorf("expected ErrEmptyCart, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) thereAreStoredOrders(n int) error {
	orders, err := c.store.Orders(c.ctx)
	if err != nil {
		return err
	}
	if len(orders) != n {
		return fmt.Errorf("expected %d orders, got %d", n, len(orders))
	}
	return nil
}

func (c *checkoutTestContext) thereAreStoredOrderNumbers(n int) error {
	got, err := c.store.OrderNumberCount(c.ctx)
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("expected %d order numbers, got %d", n, got)
	}
	return nil
}

func (c *checkoutTestContext) iPayMyLastOrderWith(method, ref string) error {
	if len(c.placed) == 0 {
		return errors.New("no order placed")
	}
	_, c.err = c.svc.ConfirmPayment(c.ctx, Payment{
		OrderID:       c.placed[len(c.placed)-1].ID,
		Username:      c.username,
		Method:        method,
		TransactionID: ref,
	})
	return nil
}

func (c *checkoutTestContext) thePaymentIsRejectedAsIncomplete() error {
	if !errors.Is(c.err, ErrIncompletePayment) {
		return fmt.Errorf("expected ErrIncompletePayment, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) orderStatus(idx int, status string) (models.Order, error) {
	o, err := c.store.Order(c.ctx, c.placed[idx].ID)
	if err != nil {
		return o, err
	}
	if string(o.PaymentStatus) != status {
		return o, fmt.Errorf("expected order %d to be %s, got %s", o.ID, status, o.PaymentStatus)
	}
	return o, nil
}

func (c *checkoutTestContext) myLastOrderIs(status string) error {
	_, err := c.orderStatus(len(c.placed)-1, status)
	return err
}

func (c *checkoutTestContext) myFirstOrderIs(status string) error {
	_, err := c.orderStatus(0, status)
	return err
}

func (c *checkoutTestContext) myLastOrderIsWithMethodAndReference(status, method, ref string) error {
	o, err := c.orderStatus(len(c.placed)-1, status)
	if err != nil {
		return err
	}
	if o.PaymentMethod == nil || *o.PaymentMethod != method {
		return fmt.Errorf("expected method %q, got %v", method, o.PaymentMethod)
	}
	if o.TransactionID == nil || *o.TransactionID != ref {
		return fmt.Errorf("expected reference %q, got %v", ref, o.TransactionID)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given steps
	ctx.Step(`^the default catalog$`, tc.theDefaultCatalog)
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.iAmSignedInAs)
	ctx.Step(`^I have placed (\d+) orders$`, tc.iHavePlacedOrders)

	// When steps
	ctx.Step(`^I add product (\d+) to my cart$`, tc.iAddProductToMyCart)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I place my order$`, tc.iPlaceMyOrder)
	ctx.Step(`^I pay my last order with "([^"]*)" and reference "([^"]*)"$`, tc.iPayMyLastOrderWith)

	// Then steps
	ctx.Step(`^my cart has (\d+) lines?$`, tc.myCartHasLines)
	ctx.Step(`^my cart total is "([^"]*)"$`, tc.myCartTotalIs)
	ctx.Step(`^the order is placed$`, tc.theOrderIsPlaced)
	ctx.Step(`^the order is rejected because the cart is empty$`, tc.theOrderIsRejectedBecauseTheCartIsEmpty)
	ctx.Step(`^there (?:is|are) (\d+) stored orders?$`, tc.thereAreStoredOrders)
	ctx.Step(`^there (?:is|are) (\d+) stored order numbers?$`, tc.thereAreStoredOrderNumbers)
	ctx.Step(`^the payment is rejected as incomplete$`, tc.thePaymentIsRejectedAsIncomplete)
	ctx.Step(`^my last order is "([^"]*)" with method "([^"]*)" and reference "([^"]*)"$`, tc.myLastOrderIsWithMethodAndReference)
	ctx.Step(`^my last order is "([^"]*)"$`, tc.myLastOrderIs)
	ctx.Step(`^my first order is "([^"]*)"$`, tc.myFirstOrderIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
