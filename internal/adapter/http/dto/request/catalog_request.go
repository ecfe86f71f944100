package request

import (
	"strings"

	"b2bdesk/internal/domain/entities"
)

// AddressRequest normalizes the postal shape. Legacy payloads use
// street_address / zip instead of street / pincode.
type AddressRequest struct {
	Street        string `json:"street"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Zip           string `json:"zip"`
}

func (r AddressRequest) ToEntity() entities.Address {
	street := strings.TrimSpace(r.Street)
	if street == "" {
		street = strings.TrimSpace(r.StreetAddress)
	}
	pincode := strings.TrimSpace(r.Pincode)
	if pincode == "" {
		pincode = strings.TrimSpace(r.Zip)
	}
	return entities.Address{
		Street:  street,
		City:    strings.TrimSpace(r.City),
		State:   strings.TrimSpace(r.State),
		Pincode: pincode,
	}
}

type ProductCreateRequest struct {
	Name    string  `json:"name" binding:"required"`
	SKU     string  `json:"sku"`
	HSNCode string  `json:"hsn_code"`
	Unit    string  `json:"unit"`
	Price   float64 `json:"price"`

	TaxRate       *float64 `json:"tax_rate"`
	LegacyTaxRate *float64 `json:"taxRate"`
	LegacyGSTRate *float64 `json:"gstRate"`
	LegacyTax     *float64 `json:"tax"`
}

func (r ProductCreateRequest) ResolveTaxRate() float64 {
	for _, v := range []*float64{r.TaxRate, r.LegacyTaxRate, r.LegacyGSTRate, r.LegacyTax} {
		if v != nil {
			return *v
		}
	}
	return 0
}

func (r ProductCreateRequest) ToEntity() entities.Product {
	return entities.Product{
		Name:    strings.TrimSpace(r.Name),
		SKU:     strings.TrimSpace(r.SKU),
		HSNCode: strings.TrimSpace(r.HSNCode),
		Unit:    strings.TrimSpace(r.Unit),
		Price:   r.Price,
		TaxRate: r.ResolveTaxRate(),
	}
}

type CustomerCreateRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	GSTIN    string         `json:"gstin"`
	Billing  AddressRequest `json:"billing"`
	Shipping AddressRequest `json:"shipping"`
}

func (r CustomerCreateRequest) ToEntity() entities.Customer {
	return entities.Customer{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Phone:    strings.TrimSpace(r.Phone),
		GSTIN:    strings.ToUpper(strings.TrimSpace(r.GSTIN)),
		Billing:  r.Billing.ToEntity(),
		Shipping: r.Shipping.ToEntity(),
	}
}
