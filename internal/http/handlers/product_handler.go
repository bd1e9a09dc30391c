package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kustomkeys/internal/images"
	applog "kustomkeys/internal/log"
	"kustomkeys/internal/services"
	"kustomkeys/internal/validate"
)

const imageField = "product_image"

type HomeHandler struct {
	Products *services.ProductService
}

// GET /
func (h *HomeHandler) Index(c *fiber.Ctx) error {
	home, err := h.Products.Home(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "index", fiber.Map{"Title": "Kustom Keys", "Newest": home.Newest, "Products": home.Products})
}

type ProductHandler struct {
	Products *services.ProductService
}

// upload returns the accepted image of a multipart submission, or nil when none was chosen.
func upload(c *fiber.Ctx) (*images.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// url-encoded submissions carry no file
		return nil, nil
	}
	files := form.File[imageField]
	if len(files) == 0 || (files[0].Filename == "" && files[0].Size == 0) {
		return nil, nil
	}
	f, err := images.Accept(files[0])
	if err != nil {
		applog.Security(c, "upload.reject", map[string]any{"file": files[0].Filename, "size": files[0].Size, "reason": err.Error()})
		return nil, err
	}
	return f, nil
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Products.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "product_list", fiber.Map{"Title": "Product List", "Products": products})
}

// GET /product/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.Products.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "product_detail", fiber.Map{"Title": "Product Detail", "D": d})
}

// GET /product/create
func (h *ProductHandler) CreateForm(c *fiber.Ctx) error {
	form, err := h.Products.NewForm(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "product_form", fiber.Map{"Title": "Create Product", "Form": form})
}

// POST /product/create
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in validate.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	file, err := upload(c)
	if err != nil {
		return err
	}
	url, form, err := h.Products.Create(c.UserContext(), in, file)
	if err != nil {
		applog.Error(c, "product.create.fail", err, nil)
		return err
	}
	if form != nil {
		return rejected(c, "product_form", fiber.Map{"Title": "Create Product", "Form": form})
	}
	applog.Audit(c, "product.create", map[string]any{"url": url, "image": file != nil})
	return c.Redirect(url)
}

// GET /product/:id/update
func (h *ProductHandler) UpdateForm(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := h.Products.EditForm(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "product_form", fiber.Map{"Title": "Update Product", "Form": form})
}

// POST /product/:id/update
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in validate.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	file, err := upload(c)
	if err != nil {
		return err
	}
	url, form, err := h.Products.Update(c.UserContext(), id, in, file)
	if err != nil {
		applog.Error(c, "product.update.fail", err, map[string]any{"id": id})
		return err
	}
	if form != nil {
		return rejected(c, "product_form", fiber.Map{"Title": "Update Product", "Form": form})
	}
	applog.Audit(c, "product.update", map[string]any{"id": id, "image": file != nil})
	return c.Redirect(url)
}

// GET /product/:id/delete
func (h *ProductHandler) DeleteForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/products")
	}
	d, err := h.Products.DeleteView(c.UserContext(), id)
	if err != nil {
		return err
	}
	if d == nil {
		return c.Redirect("/products")
	}
	return render(c, "product_delete", fiber.Map{"Title": "Delete Product", "D": d})
}

// POST /product/:id/delete
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/products")
	}
	url, blocked, err := h.Products.Delete(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "product.delete.fail", err, map[string]any{"id": id})
		return err
	}
	if blocked != nil {
		applog.Info(c, "product.delete.blocked", map[string]any{"id": id, "instances": len(blocked.Instances)})
		c.Status(fiber.StatusConflict)
		return render(c, "product_delete", fiber.Map{"Title": "Delete Product", "D": blocked})
	}
	applog.Audit(c, "product.delete", map[string]any{"id": id})
	return c.Redirect(url)
}
