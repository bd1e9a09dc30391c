// Command populatedb fills the configured store with sample brands, categories, products and
// product instances.
package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kustomkeys/internal/config"
	"kustomkeys/internal/domain"
	applog "kustomkeys/internal/log"
	"kustomkeys/internal/platform"
)

var (
	brandNames    = []string{"KeyWerk", "QWERTY", "keymash", "WootKeys", "easeware", "techlab"}
	categoryNames = []string{"Keyboards", "Keyboard Kits", "Keycaps", "Switches", "Keyboard Accessories"}
)

// category -1 leaves the product uncategorized
type productSeed struct {
	brand, category int
	price, name     string
	details         string
}

var productSeeds = []productSeed{
	{0, 0, "250.099", "Paeron M1", "A compact 65% wireless mechanical keyboard with low profile switches, Bluetooth 5.1, up to 72 hours of battery life and a sandblasted aluminum frame with RGB backlighting."},
	{0, 1, "175.00088", "Paeron M1 Barebones", "The Paeron M1 without switches or keycaps: case, PCB, plate and battery, ready for your own parts."},
	{2, 2, "5.50", "Standard PBT Doubleshot Keycaps - Black", "Replacement PBT keycaps made with a double shot molding process, so the legends never fade. Slightly textured for grip."},
	{3, 3, "9.99", "Keyboard Switches", "A pack of Cherry MX Blue mechanical keyboard switches, perfect for customizing your keyboard or repairing a faulty switch."},
	{1, 2, "4.99", "Keycaps", "A set of double-shot PBT keycaps in a retro beige color scheme, compatible with most standard mechanical keyboards."},
	{3, -1, "24.99", "Keyboard Stabilizers", "A complete set of PCB-mount stabilizers for a full-size mechanical keyboard, including wire stabilizers for the space bar and larger keys."},
	{5, 0, "99.99", "Ultra-Thin Keyboard", "A super slim keyboard with low profile scissor switches and a minimalist design, perfect for minimalists and travelers."},
	{4, 0, "149.99", "Ergonomic Split Keyboard", "An ergonomically designed split keyboard with a tenting feature to reduce wrist strain and improve typing posture."},
	{5, 0, "79.99", "Gaming Keyboard", "A gaming keyboard with customizable RGB backlighting, macro keys, and mechanical switches for a fast and responsive gaming experience."},
	{1, 0, "129.99", "Wireless Mechanical Keyboard", "A wireless mechanical keyboard with customizable backlighting, a choice of Cherry MX switch types and a range of up to 30 feet."},
}

var instanceSeeds = []domain.ProductInstance{
	{Model: "0", Price: decimal.RequireFromString("250.099")},
	{Model: "1", Condition: domain.ConditionSomeDamage, Price: decimal.RequireFromString("125"), Description: "Several keycaps are missing."},
	{Model: "0", Condition: domain.ConditionLikeNew, Price: decimal.RequireFromString("12.5")},
}

// instance i belongs to product instanceProducts[i]
var instanceProducts = []int{0, 0, 2}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	st, closeStores, err := platform.OpenStores(ctx, cfg)
	if err != nil {
		lg.Fatal("store.open.fail", zap.Error(err))
	}
	defer closeStores()

	if err := populate(ctx, st, lg); err != nil {
		lg.Error("populate.fail", zap.Error(err))
		return
	}
	lg.Info("populate.done")
}

func populate(ctx context.Context, st domain.Stores, lg *zap.Logger) error {
	brands := make([]domain.Brand, len(brandNames))
	for i, name := range brandNames {
		b, err := findOrCreate[domain.Brand](ctx, st.Brands, name, domain.Brand{Name: name})
		if err != nil {
			return err
		}
		brands[i] = b
		lg.Info("brand.seed", zap.String("id", b.ID), zap.String("name", b.Name))
	}
	cats := make([]domain.Category, len(categoryNames))
	for i, name := range categoryNames {
		c, err := findOrCreate[domain.Category](ctx, st.Categories, name, domain.Category{Name: name})
		if err != nil {
			return err
		}
		cats[i] = c
		lg.Info("category.seed", zap.String("id", c.ID), zap.String("name", c.Name))
	}

	existing, err := st.Products.Find(ctx, domain.ProductFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lg.Info("product.seed.skip", zap.String("reason", "store already has products"))
		return nil
	}

	products := make([]domain.Product, len(productSeeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range productSeeds {
		i, s := i, s
		g.Go(func() error {
			draft := domain.Product{
				BrandID: brands[s.brand].ID,
				Price:   decimal.RequireFromString(s.price),
				Name:    s.name,
				Details: s.details,
			}
			if s.category >= 0 {
				draft.CategoryID = cats[s.category].ID
			}
			p, err := st.Products.Create(gctx, draft)
			products[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	lg.Info("product.create", zap.Int("count", len(products)))

	g, gctx = errgroup.WithContext(ctx)
	for i, draft := range instanceSeeds {
		draft := draft
		draft.ProductID = products[instanceProducts[i]].ID
		g.Go(func() error {
			_, err := st.Instances.Create(gctx, draft)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	lg.Info("productinstance.create", zap.Int("count", len(instanceSeeds)))
	return nil
}

type namedStore[T any] interface {
	FindByName(ctx context.Context, name string) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
}

// findOrCreate keeps reruns from duplicating brands and categories.
func findOrCreate[T any](ctx context.Context, st namedStore[T], name string, draft T) (T, error) {
	found, err := st.FindByName(ctx, name)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(found) > 0 {
		return found[0], nil
	}
	return st.Create(ctx, draft)
}
