// api/schemas/product.go
package schemas

import (
	"fmt"
	"strings"
)

// ProductType enumerates the vendor's product classes. The type of a record
// decides which page sections apply to it.
type ProductType string

const (
	TypeStaticDocument     ProductType = "StaticDocument"
	TypeAdHoc              ProductType = "AdHoc"
	TypeProductMatrix      ProductType = "ProductMatrix"
	TypeNonPrintedProducts ProductType = "NonPrintedProducts"
)

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case TypeStaticDocument, TypeAdHoc, TypeProductMatrix, TypeNonPrintedProducts:
		return true
	}
	return false
}

// QuantityMode selects how order quantities are offered to the buyer.
type QuantityMode string

const (
	QuantityAny      QuantityMode = "Any"
	QuantitySpecific QuantityMode = "Specific"
)

// ProductRecord is one unit of work for the sync engine: the desired state of
// a single product in the vendor storefront. Field values that vary per size
// or variant are carried as composite Values.
type ProductRecord struct {
	// Name is the identity key. It must exactly match the record the live
	// search lands on before any mutation is allowed.
	Name           string      `json:"name"`
	DisplayName    string      `json:"displayName"`
	Type           ProductType `json:"productType"`
	ItemTemplateID string      `json:"itemTemplateId"`

	BriefDescription string `json:"briefDescription"`
	LongDescription  string `json:"longDescription"`

	Icon          string   `json:"icon"`
	GalleryImages []string `json:"galleryImages"`
	PDF           string   `json:"pdf"`

	TicketTemplate string `json:"ticketTemplate"`

	RangeStart   Value `json:"rangeStart"`
	RangeEnd     Value `json:"rangeEnd"`
	RegularPrice Value `json:"regularPrice"`
	SetupPrice   Value `json:"setupPrice"`

	ShippingWidth  Value  `json:"shippingWidth"`
	ShippingLength Value  `json:"shippingLength"`
	ShippingHeight Value  `json:"shippingHeight"`
	ShippingMaxQty Value  `json:"shippingMaxQty"`
	Weight         string `json:"weight"`

	OrderQuantityMode QuantityMode `json:"orderQuantityMode"`
	AdvancedRange     string       `json:"advancedRange"`
	MaxOrderQuantity  string       `json:"maxOrderQuantity"`
	ShowQuantityPrice bool         `json:"showQuantityPrice"`
	BuyerConfigurable bool         `json:"buyerConfigurable"`

	// Skip bypasses the record entirely; it still counts as processed.
	Skip bool `json:"skip"`
}

// compositeFields returns the record's expandable fields in the order the
// vendor page lays them out. The first composite one defines the row shape.
func (r *ProductRecord) compositeFields() []struct {
	Name  string
	Value Value
} {
	return []struct {
		Name  string
		Value Value
	}{
		{"rangeStart", r.RangeStart},
		{"rangeEnd", r.RangeEnd},
		{"regularPrice", r.RegularPrice},
		{"setupPrice", r.SetupPrice},
		{"shippingWidth", r.ShippingWidth},
		{"shippingLength", r.ShippingLength},
		{"shippingHeight", r.ShippingHeight},
		{"shippingMaxQty", r.ShippingMaxQty},
	}
}

// Cardinality derives the number of repeated UI rows this record needs. The
// first composite field defines it; every other composite field must agree.
// A record with only scalar values has cardinality 1.
func (r *ProductRecord) Cardinality() (int, error) {
	n := -1
	defining := ""
	for _, f := range r.compositeFields() {
		if !f.Value.IsComposite() {
			continue
		}
		if n < 0 {
			n = f.Value.Len()
			defining = f.Name
			continue
		}
		if f.Value.Len() != n {
			return 0, fmt.Errorf("record %q: composite field %q has %d sub-values, %q has %d",
				r.Name, f.Name, f.Value.Len(), defining, n)
		}
	}
	if n < 0 {
		return 1, nil
	}
	return n, nil
}

// Validate checks the invariants that must hold before the record is handed
// to a browser session. Violations are data errors, not reconciliation work.
func (r *ProductRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("record has no identity name")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("record %q: unknown product type %q", r.Name, r.Type)
	}
	if r.OrderQuantityMode != "" && r.OrderQuantityMode != QuantityAny && r.OrderQuantityMode != QuantitySpecific {
		return fmt.Errorf("record %q: unknown order quantity mode %q", r.Name, r.OrderQuantityMode)
	}
	if r.OrderQuantityMode == QuantitySpecific && strings.TrimSpace(r.AdvancedRange) == "" {
		return fmt.Errorf("record %q: Specific quantity mode requires an advanced range expression", r.Name)
	}
	if _, err := r.Cardinality(); err != nil {
		return err
	}
	return nil
}
