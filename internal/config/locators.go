// internal/config/locators.go
package config

import (
	"fmt"

	"github.com/printready/storefront-sync/api/schemas"
)

// Locators is the selector table for the target vendor page. It is plain
// configuration: when the vendor ships a new page revision, operators update
// the config file instead of the engine. Selectors containing %d are row
// patterns; the helpers below fill in the 1-based row position.
type Locators struct {
	Login       LoginLocators       `mapstructure:"login" yaml:"login"`
	Search      SearchLocators      `mapstructure:"search" yaml:"search"`
	Identity    IdentityLocators    `mapstructure:"identity" yaml:"identity"`
	Pricing     PricingLocators     `mapstructure:"pricing" yaml:"pricing"`
	Shipping    ShippingLocators    `mapstructure:"shipping" yaml:"shipping"`
	Icons       IconLocators        `mapstructure:"icons" yaml:"icons"`
	Description DescriptionLocators `mapstructure:"description" yaml:"description"`
	Files       FileLocators        `mapstructure:"files" yaml:"files"`
	Settings    SettingsLocators    `mapstructure:"settings" yaml:"settings"`
	Tickets     TicketLocators      `mapstructure:"tickets" yaml:"tickets"`
	Save        SaveLocators        `mapstructure:"save" yaml:"save"`
}

type LoginLocators struct {
	Username    string `mapstructure:"username" yaml:"username"`
	Password    string `mapstructure:"password" yaml:"password"`
	Submit      string `mapstructure:"submit" yaml:"submit"`
	ErrorBanner string `mapstructure:"error_banner" yaml:"error_banner"`
	// LandingMarker is an element that only exists once login has succeeded
	// and the record-search page is up.
	LandingMarker string `mapstructure:"landing_marker" yaml:"landing_marker"`
}

type SearchLocators struct {
	Input  string `mapstructure:"input" yaml:"input"`
	Submit string `mapstructure:"submit" yaml:"submit"`
}

type IdentityLocators struct {
	NameValue        string `mapstructure:"name_value" yaml:"name_value"`
	TypeLabel        string `mapstructure:"type_label" yaml:"type_label"`
	DisplayName      string `mapstructure:"display_name" yaml:"display_name"`
	ItemTemplate     string `mapstructure:"item_template" yaml:"item_template"`
	BriefDescription string `mapstructure:"brief_description" yaml:"brief_description"`
}

type PricingLocators struct {
	Row          string `mapstructure:"row" yaml:"row"`
	AddRow       string `mapstructure:"add_row" yaml:"add_row"`
	DeleteRow    string `mapstructure:"delete_row" yaml:"delete_row"`
	RangeStart   string `mapstructure:"range_start" yaml:"range_start"`
	RangeEnd     string `mapstructure:"range_end" yaml:"range_end"`
	RegularPrice string `mapstructure:"regular_price" yaml:"regular_price"`
	SetupPrice   string `mapstructure:"setup_price" yaml:"setup_price"`
	CopyToAll    string `mapstructure:"copy_to_all" yaml:"copy_to_all"`
}

type ShippingLocators struct {
	Row        string `mapstructure:"row" yaml:"row"`
	AddRow     string `mapstructure:"add_row" yaml:"add_row"`
	DeleteRow  string `mapstructure:"delete_row" yaml:"delete_row"`
	Width      string `mapstructure:"width" yaml:"width"`
	Length     string `mapstructure:"length" yaml:"length"`
	Height     string `mapstructure:"height" yaml:"height"`
	MaxQty     string `mapstructure:"max_qty" yaml:"max_qty"`
	WeightUnit string `mapstructure:"weight_unit" yaml:"weight_unit"`
	Weight     string `mapstructure:"weight" yaml:"weight"`
}

type IconLocators struct {
	PrimaryInput   string `mapstructure:"primary_input" yaml:"primary_input"`
	PrimaryPreview string `mapstructure:"primary_preview" yaml:"primary_preview"`
	GalleryInput   string `mapstructure:"gallery_input" yaml:"gallery_input"`
	GalleryItem    string `mapstructure:"gallery_item" yaml:"gallery_item"`
	GalleryDelete  string `mapstructure:"gallery_delete" yaml:"gallery_delete"`
	GalleryPreview string `mapstructure:"gallery_preview" yaml:"gallery_preview"`
}

type DescriptionLocators struct {
	Content string `mapstructure:"content" yaml:"content"`
	Editor  string `mapstructure:"editor" yaml:"editor"`
}

type FileLocators struct {
	PDFInput    string `mapstructure:"pdf_input" yaml:"pdf_input"`
	CurrentName string `mapstructure:"current_name" yaml:"current_name"`
}

type SettingsLocators struct {
	AnyRadio          string `mapstructure:"any_radio" yaml:"any_radio"`
	SpecificRadio     string `mapstructure:"specific_radio" yaml:"specific_radio"`
	AdvancedRange     string `mapstructure:"advanced_range" yaml:"advanced_range"`
	MaxOrderQuantity  string `mapstructure:"max_order_quantity" yaml:"max_order_quantity"`
	ShowQuantityPrice string `mapstructure:"show_quantity_price" yaml:"show_quantity_price"`
	BuyerConfig       string `mapstructure:"buyer_config" yaml:"buyer_config"`
}

type TicketLocators struct {
	TemplateSelect string `mapstructure:"template_select" yaml:"template_select"`
}

type SaveLocators struct {
	Button string `mapstructure:"button" yaml:"button"`
	// ListingMarker appears once the save round-trip has put the session
	// back on the listing page.
	ListingMarker string `mapstructure:"listing_marker" yaml:"listing_marker"`
}

// Ref builds a FieldRef for a fixed (non-positional) selector.
func Ref(name, selector string) schemas.FieldRef {
	return schemas.FieldRef{Name: name, Selector: selector}
}

// at fills a %d row pattern with the 1-based position for row index i.
func at(name, pattern string, i int) schemas.FieldRef {
	return schemas.FieldRef{
		Name:     fmt.Sprintf("%s[%d]", name, i),
		Selector: fmt.Sprintf(pattern, i+1),
	}
}

func (p PricingLocators) RangeStartAt(i int) schemas.FieldRef {
	return at("pricing.rangeStart", p.RangeStart, i)
}
func (p PricingLocators) RangeEndAt(i int) schemas.FieldRef {
	return at("pricing.rangeEnd", p.RangeEnd, i)
}
func (p PricingLocators) RegularPriceAt(i int) schemas.FieldRef {
	return at("pricing.regularPrice", p.RegularPrice, i)
}
func (p PricingLocators) SetupPriceAt(i int) schemas.FieldRef {
	return at("pricing.setupPrice", p.SetupPrice, i)
}

func (s ShippingLocators) WidthAt(i int) schemas.FieldRef {
	return at("shipping.width", s.Width, i)
}
func (s ShippingLocators) LengthAt(i int) schemas.FieldRef {
	return at("shipping.length", s.Length, i)
}
func (s ShippingLocators) HeightAt(i int) schemas.FieldRef {
	return at("shipping.height", s.Height, i)
}
func (s ShippingLocators) MaxQtyAt(i int) schemas.FieldRef {
	return at("shipping.maxQty", s.MaxQty, i)
}

// DefaultLocators returns the built-in selector table for the current
// vendor page version.
func DefaultLocators() Locators {
	var l Locators
	l.applyDefaults()
	return l
}

// applyDefaults fills every empty selector with the built-in table for the
// current vendor page version.
func (l *Locators) applyDefaults() {
	def := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}

	def(&l.Login.Username, `#loginForm input[name="userName"]`)
	def(&l.Login.Password, `#loginForm input[name="password"]`)
	def(&l.Login.Submit, `#loginForm button[type="submit"]`)
	def(&l.Login.ErrorBanner, `#loginForm .validation-summary-errors`)
	def(&l.Login.LandingMarker, `#storeCenter .product-search`)

	def(&l.Search.Input, `#storeCenter .product-search input[name="searchTerm"]`)
	def(&l.Search.Submit, `#storeCenter .product-search button.search-go`)

	def(&l.Identity.NameValue, `#productDetail input[name="productName"]`)
	def(&l.Identity.TypeLabel, `#productDetail .product-type-label`)
	def(&l.Identity.DisplayName, `#productDetail input[name="displayName"]`)
	def(&l.Identity.ItemTemplate, `#productDetail select[name="itemTemplate"]`)
	def(&l.Identity.BriefDescription, `#productDetail textarea[name="briefDescription"]`)

	def(&l.Pricing.Row, `#priceSheet tbody tr.price-row`)
	def(&l.Pricing.AddRow, `#priceSheet button.add-range`)
	def(&l.Pricing.DeleteRow, `#priceSheet tbody tr.price-row:last-child button.delete-range`)
	def(&l.Pricing.RangeStart, `#priceSheet tbody tr.price-row:nth-child(%d) input.range-begin`)
	def(&l.Pricing.RangeEnd, `#priceSheet tbody tr.price-row:nth-child(%d) input.range-end`)
	def(&l.Pricing.RegularPrice, `#priceSheet tbody tr.price-row:nth-child(%d) input.regular-price`)
	def(&l.Pricing.SetupPrice, `#priceSheet tbody tr.price-row:nth-child(%d) input.setup-price`)
	def(&l.Pricing.CopyToAll, `#priceSheet button.copy-first-row`)

	def(&l.Shipping.Row, `#shippingPanel tbody tr.dimension-row`)
	def(&l.Shipping.AddRow, `#shippingPanel button.add-dimension`)
	def(&l.Shipping.DeleteRow, `#shippingPanel tbody tr.dimension-row:last-child button.delete-dimension`)
	def(&l.Shipping.Width, `#shippingPanel tbody tr.dimension-row:nth-child(%d) input.ship-width`)
	def(&l.Shipping.Length, `#shippingPanel tbody tr.dimension-row:nth-child(%d) input.ship-length`)
	def(&l.Shipping.Height, `#shippingPanel tbody tr.dimension-row:nth-child(%d) input.ship-height`)
	def(&l.Shipping.MaxQty, `#shippingPanel tbody tr.dimension-row:nth-child(%d) input.ship-max-qty`)
	def(&l.Shipping.WeightUnit, `#shippingPanel select[name="weightUnit"]`)
	def(&l.Shipping.Weight, `#shippingPanel input[name="weight"]`)

	def(&l.Icons.PrimaryInput, `#iconPanel input[type="file"].primary-icon`)
	def(&l.Icons.PrimaryPreview, `#iconPanel .primary-icon-preview img`)
	def(&l.Icons.GalleryInput, `#iconPanel input[type="file"].gallery-upload`)
	def(&l.Icons.GalleryItem, `#iconPanel ul.gallery li.gallery-item`)
	def(&l.Icons.GalleryDelete, `#iconPanel ul.gallery li.gallery-item:first-child button.remove`)
	def(&l.Icons.GalleryPreview, `#iconPanel ul.gallery li.gallery-item img.thumb`)

	def(&l.Description.Content, `#longDescription .rte-content`)
	def(&l.Description.Editor, `#longDescription .rte-editor [contenteditable]`)

	def(&l.Files.PDFInput, `#filePanel input[type="file"].content-pdf`)
	def(&l.Files.CurrentName, `#filePanel .current-file-name`)

	def(&l.Settings.AnyRadio, `#settingsPanel input[name="qtyMode"][value="any"]`)
	def(&l.Settings.SpecificRadio, `#settingsPanel input[name="qtyMode"][value="specific"]`)
	def(&l.Settings.AdvancedRange, `#settingsPanel input[name="advancedRange"]`)
	def(&l.Settings.MaxOrderQuantity, `#settingsPanel input[name="maxOrderQty"]`)
	def(&l.Settings.ShowQuantityPrice, `#settingsPanel input[name="showQtyPrice"]`)
	def(&l.Settings.BuyerConfig, `#settingsPanel input[name="buyerConfig"]`)

	def(&l.Tickets.TemplateSelect, `#ticketPanel select[name="ticketTemplate"]`)

	def(&l.Save.Button, `#productDetail button.save-product`)
	def(&l.Save.ListingMarker, `#storeCenter .product-listing`)
}
