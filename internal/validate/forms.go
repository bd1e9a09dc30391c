package validate

import "kustomkeys/internal/domain"

// Form inputs: every Normalize* call returns the trimmed, HTML-escaped input (for re-rendering),
// the draft entity built from it, and the accumulated field errors.

type LabelInput struct {
	Name string `form:"name" validate:"required"`
}

type ProductInput struct {
	Name     string `form:"name" validate:"required,max=100"`
	Price    string `form:"price" validate:"required,price,pricecap"`
	Details  string `form:"details" validate:"required"`
	Brand    string `form:"brand" validate:"required"`
	Category string `form:"category"`
}

type InstanceInput struct {
	Product     string `form:"product" validate:"required"`
	Model       string `form:"model" validate:"required"`
	Condition   string `form:"condition" validate:"omitempty,condition"`
	Price       string `form:"price" validate:"required,price,pricecap"`
	Description string `form:"description"`
}

var (
	brandMessages    = messages{"name.required": "Brand must not be empty"}
	categoryMessages = messages{"name.required": "Category must not be empty"}
	productMessages  = messages{
		"name.required":    "Name must not be empty.",
		"name.max":         "Name must be at most 100 characters.",
		"price.required":   "Price must not be empty",
		"price.price":      "Price must be greater than $0.00",
		"price.pricecap":   "Price must be less than $1,000,000,000",
		"details.required": "Details must not be empty.",
		"brand.required":   "Brand must not be empty.",
	}
	instanceMessages = messages{
		"product.required":    "Product must not be empty.",
		"model.required":      "Model must not be empty",
		"condition.condition": "Condition must be one of New, Used - Like New, Used - Some Damage, Used - Poor Condition.",
		"price.required":      "Price must not be empty",
		"price.price":         "Price must be greater than $0.00",
		"price.pricecap":      "Price must be less than $1,000,000,000",
	}
)

func normalizeLabel(in LabelInput, msgs messages) (LabelInput, Errors) {
	trimAll(&in.Name)
	errs := check(in, msgs)
	escapeAll(&in.Name)
	return in, errs
}

func Brand(in LabelInput) (LabelInput, domain.Brand, Errors) {
	in, errs := normalizeLabel(in, brandMessages)
	return in, domain.Brand{Name: in.Name}, errs
}

func Category(in LabelInput) (LabelInput, domain.Category, Errors) {
	in, errs := normalizeLabel(in, categoryMessages)
	return in, domain.Category{Name: in.Name}, errs
}

func Product(in ProductInput) (ProductInput, domain.Product, Errors) {
	trimAll(&in.Name, &in.Price, &in.Details, &in.Brand, &in.Category)
	errs := check(in, productMessages)
	escapeAll(&in.Name, &in.Price, &in.Details, &in.Brand, &in.Category)

	price, _ := parsePrice(in.Price)
	return in, domain.Product{
		BrandID:    in.Brand,
		CategoryID: in.Category,
		Price:      price,
		Name:       in.Name,
		Details:    in.Details,
	}, errs
}

func Instance(in InstanceInput) (InstanceInput, domain.ProductInstance, Errors) {
	trimAll(&in.Product, &in.Model, &in.Condition, &in.Price, &in.Description)
	errs := check(in, instanceMessages)
	escapeAll(&in.Product, &in.Model, &in.Condition, &in.Price, &in.Description)

	cond := domain.Condition(in.Condition)
	if in.Condition == "" {
		cond = domain.ConditionNew
	}
	price, _ := parsePrice(in.Price)
	return in, domain.ProductInstance{
		ProductID:   in.Product,
		Model:       in.Model,
		Condition:   cond,
		Price:       price,
		Description: in.Description,
	}, errs
}
