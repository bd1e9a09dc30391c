package services_test

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/images"
	"kustomkeys/internal/repos"
	"kustomkeys/internal/services"
	"kustomkeys/internal/validate"
)

type fixture struct {
	stores  domain.Stores
	images  *images.Service
	catalog *services.Catalog
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	disk, err := images.NewDisk(t.TempDir(), "/media/products")
	require.NoError(t, err)

	st := repos.NewStores(db)
	imgs := images.NewService(disk, images.Transform{Width: 64, Height: 64})
	return fixture{stores: st, images: imgs, catalog: services.NewCatalog(st, imgs)}
}

func jpegFile(t *testing.T) *images.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 80)), nil))
	return &images.File{Name: "board.jpg", ContentType: "image/jpeg", Data: buf.Bytes()}
}

func (f fixture) brand(t *testing.T, name string) domain.Brand {
	t.Helper()
	b, err := f.stores.Brands.Create(context.Background(), domain.Brand{Name: name})
	require.NoError(t, err)
	return b
}

func (f fixture) product(t *testing.T, brandID string) domain.Product {
	t.Helper()
	url, form, err := f.catalog.Products.Create(context.Background(), validate.ProductInput{
		Name: "Paeron M1", Price: "250.099", Details: "Hot-swap board", Brand: brandID,
	}, nil)
	require.NoError(t, err)
	require.Nil(t, form)
	p, err := f.stores.Products.Get(context.Background(), url[len("/product/"):])
	require.NoError(t, err)
	return p
}

func TestBrandCreateIsIdempotentByName(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	url, form, err := f.catalog.Brands.Create(ctx, validate.LabelInput{Name: "  KeyWerk "})
	require.NoError(t, err)
	require.Nil(t, form)

	again, form, err := f.catalog.Brands.Create(ctx, validate.LabelInput{Name: "KeyWerk"})
	require.NoError(t, err)
	require.Nil(t, form)
	assert.Equal(t, url, again)

	list, err := f.catalog.Brands.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.BrandURL(list[0].ID), url)
}

func TestLabelCreateRejectsEmptyName(t *testing.T) {
	f := setup(t)
	_, form, err := f.catalog.Categories.Create(context.Background(), validate.LabelInput{Name: "   "})
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, []string{"Category must not be empty"}, form.Errors.For("name"))
}

func TestLabelUpdateRedirectsToNameOwner(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	woot := f.brand(t, "WootKeys")
	tech := f.brand(t, "techlab")

	url, form, err := f.catalog.Brands.Update(ctx, tech.ID, validate.LabelInput{Name: "WootKeys"})
	require.NoError(t, err)
	require.Nil(t, form)
	assert.Equal(t, domain.BrandURL(woot.ID), url)
	got, err := f.stores.Brands.Get(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "techlab", got.Name, "rename must not overwrite")

	url, _, err = f.catalog.Brands.Update(ctx, tech.ID, validate.LabelInput{Name: "techlab"})
	require.NoError(t, err)
	assert.Equal(t, domain.BrandURL(tech.ID), url)

	_, _, err = f.catalog.Brands.Update(ctx, "missing", validate.LabelInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBrandDeleteBlockedByProducts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	b := f.brand(t, "easeware")
	p := f.product(t, b.ID)

	url, blocked, err := f.catalog.Brands.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, url)
	require.NotNil(t, blocked)
	require.Len(t, blocked.Products, 1)
	assert.Equal(t, p.ID, blocked.Products[0].ID)
	_, err = f.stores.Brands.Get(ctx, b.ID)
	require.NoError(t, err, "blocked delete must keep the brand")

	_, _, err = f.catalog.Products.Delete(ctx, p.ID)
	require.NoError(t, err)
	url, blocked, err = f.catalog.Brands.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, blocked)
	assert.Equal(t, "/brands", url)

	view, err := f.catalog.Brands.DeleteView(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, view, "already deleted")
	url, _, err = f.catalog.Brands.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "/brands", url)
}

func TestProductValidationPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	b := f.brand(t, "KeyWerk")

	_, form, err := f.catalog.Products.Create(ctx, validate.ProductInput{
		Name: "", Price: "12.00", Details: "x", Brand: b.ID,
	}, jpegFile(t))
	require.NoError(t, err)
	require.NotNil(t, form)
	require.Len(t, form.Errors, 1)
	assert.Equal(t, []string{"Name must not be empty."}, form.Errors.For("name"))
	require.Len(t, form.Brands, 1)
	assert.True(t, form.Brands[0].Selected)

	all, err := f.stores.Products.Find(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductRejectsUnknownReferences(t *testing.T) {
	f := setup(t)
	_, form, err := f.catalog.Products.Create(context.Background(), validate.ProductInput{
		Name: "Keycaps", Price: "4.99", Details: "PBT", Brand: "nope", Category: "gone",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.NotEmpty(t, form.Errors.For("brand"))
	assert.NotEmpty(t, form.Errors.For("category"))
}

func TestProductImageLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	b := f.brand(t, "QWERTY")

	url, form, err := f.catalog.Products.Create(ctx, validate.ProductInput{
		Name: "Paeron M1", Price: "250.099", Details: "Hot-swap board", Brand: b.ID,
	}, jpegFile(t))
	require.NoError(t, err)
	require.Nil(t, form)
	id := url[len("/product/"):]

	d, err := f.catalog.Products.Detail(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, d.ImageURL)
	assert.Equal(t, "QWERTY", d.Brand.Name)
	assert.Nil(t, d.Category)
	first := d.Product.Image

	// a new upload replaces the old asset
	_, form, err = f.catalog.Products.Update(ctx, id, validate.ProductInput{
		Name: "Paeron M1", Price: "240", Details: "Hot-swap board", Brand: b.ID,
	}, jpegFile(t))
	require.NoError(t, err)
	require.Nil(t, form)
	_, err = f.images.URL(ctx, first)
	assert.ErrorIs(t, err, images.ErrAssetNotFound)

	d, err = f.catalog.Products.Detail(ctx, id)
	require.NoError(t, err)
	second := d.Product.Image
	assert.NotEqual(t, first, second)

	// no upload keeps the current asset
	_, _, err = f.catalog.Products.Update(ctx, id, validate.ProductInput{
		Name: "Paeron M1", Price: "230", Details: "Hot-swap board", Brand: b.ID,
	}, nil)
	require.NoError(t, err)
	d, err = f.catalog.Products.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second, d.Product.Image)

	_, _, err = f.catalog.Products.Delete(ctx, id)
	require.NoError(t, err)
	_, err = f.images.URL(ctx, second)
	assert.ErrorIs(t, err, images.ErrAssetNotFound)
	_, err = f.catalog.Products.Detail(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDeleteBlockedByInstances(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.product(t, f.brand(t, "keymash").ID)

	url, form, err := f.catalog.Instances.Create(ctx, p.ID, validate.InstanceInput{
		Model: "A1", Condition: "New", Price: "19.99",
	})
	require.NoError(t, err)
	require.Nil(t, form)
	instID := url[len("/productinstance/"):]

	_, blocked, err := f.catalog.Products.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, blocked)
	assert.Len(t, blocked.Instances, 1)

	back, err := f.catalog.Instances.Delete(ctx, instID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductURL(p.ID), back)

	url, blocked, err = f.catalog.Products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, blocked)
	assert.Equal(t, "/products", url)
}

func TestInstanceFormsAndValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.product(t, f.brand(t, "WootKeys").ID)

	blank, err := f.catalog.Instances.NewForm(ctx, "")
	require.NoError(t, err)
	require.Len(t, blank.Products, 1)
	require.Len(t, blank.Conditions, len(domain.Conditions))
	assert.True(t, blank.Conditions[0].Selected, "New is preselected")

	bound, err := f.catalog.Instances.NewForm(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, bound.Product)
	assert.Equal(t, p.ID, bound.Input.Product)

	_, form, err := f.catalog.Instances.Create(ctx, "", validate.InstanceInput{
		Product: p.ID, Condition: "Broken", Price: "0",
	})
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.NotEmpty(t, form.Errors.For("model"))
	assert.NotEmpty(t, form.Errors.For("condition"))
	assert.NotEmpty(t, form.Errors.For("price"))
	assert.True(t, form.Products[0].Selected)

	url, form, err := f.catalog.Instances.Create(ctx, "", validate.InstanceInput{
		Product: p.ID, Model: "B2", Price: "75",
	})
	require.NoError(t, err)
	require.Nil(t, form)
	d, err := f.catalog.Instances.Detail(ctx, url[len("/productinstance/"):])
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionNew, d.Instance.Condition)
	require.NotNil(t, d.Product)
	assert.Equal(t, p.Name, d.Product.Name)
}

func TestHomeShowsNewestAndCategories(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	b := f.brand(t, "KeyWerk")
	cat, err := f.stores.Categories.Create(ctx, domain.Category{Name: "Keycaps"})
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		_, form, err := f.catalog.Products.Create(ctx, validate.ProductInput{
			Name: name, Price: "1", Details: "x", Brand: b.ID, Category: cat.ID,
		}, nil)
		require.NoError(t, err)
		require.Nil(t, form)
	}

	home, err := f.catalog.Products.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home.Newest, 5)
	assert.Equal(t, "f", home.Newest[0].Name)
	require.Len(t, home.Products, 6)
	assert.Equal(t, "a", home.Products[0].Name)
	assert.Equal(t, "Keycaps", home.Products[0].CategoryName)
}
