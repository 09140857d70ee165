package provider

import (
	"github.com/vendrhub/klarna-hpp/internal/klarna"
	"github.com/vendrhub/klarna-hpp/internal/order"
)

// buildMerchantSessionRequest maps a host order onto a Klarna merchant
// session request. country and currency must already be validated upper-case
// ISO codes.
func buildMerchantSessionRequest(ord *order.Order, settings HppSettings, country, currency, continueURL, callbackURL string) *klarna.CreateMerchantSessionRequest {
	return &klarna.CreateMerchantSessionRequest{
		MerchantReference1: ord.OrderNumber,
		PurchaseCountry:    country,
		PurchaseCurrency:   currency,
		Locale:             ord.LanguageISOCode,
		OrderAmount:        order.ToMinorUnits(ord.TotalPrice),
		OrderTaxAmount:     order.ToMinorUnits(ord.TotalTax),
		OrderLines:         buildOrderLines(ord, settings),
		BillingAddress:     buildBillingAddress(ord, settings, country),
		MerchantURLs: &klarna.MerchantURLs{
			Confirmation: appendQuery(continueURL, "sid={session.id}&oid={order.id}"),
			Notification: appendQuery(callbackURL, "sid={session.id}&oid={order.id}"),
			Push:         appendQuery(callbackURL, "sid={session.id}&oid={order.id}"),
		},
	}
}

// buildOrderLines emits one Klarna line per order line plus synthetic lines
// for the shipping fee, the payment method fee, and the aggregate order-level
// adjustment. The adjustment line is the declared order total minus the sum
// of everything else, computed in minor units, so the emitted lines always
// sum to the declared total.
func buildOrderLines(ord *order.Order, settings HppSettings) []klarna.OrderLine {
	lines := make([]klarna.OrderLine, 0, len(ord.Lines)+3)
	var runningTotal int64

	for _, l := range ord.Lines {
		taxRate := order.EncodeTaxRate(l.TaxRate)
		totalAmount := order.ToMinorUnits(l.TotalPrice)
		runningTotal += totalAmount

		lines = append(lines, klarna.OrderLine{
			Type:                lineType(l, settings),
			Reference:           l.SKU,
			Name:                l.Name,
			Quantity:            l.Quantity,
			UnitPrice:           order.ToMinorUnits(l.UnitPrice),
			TaxRate:             taxRate,
			TotalAmount:         totalAmount,
			TotalDiscountAmount: order.ToMinorUnits(l.TotalDiscount),
			TotalTaxAmount:      order.TaxFromGross(totalAmount, taxRate),
		})
	}

	if sm := ord.ShippingMethod; sm != nil && !sm.Fee.IsZero() {
		taxRate := order.EncodeTaxRate(sm.TaxRate)
		amount := order.ToMinorUnits(sm.Fee)
		runningTotal += amount

		lines = append(lines, klarna.OrderLine{
			Type:           klarna.OrderLineTypeShippingFee,
			Reference:      "shipping",
			Name:           settings.feeLabel(sm.Name),
			Quantity:       1,
			UnitPrice:      amount,
			TaxRate:        taxRate,
			TotalAmount:    amount,
			TotalTaxAmount: order.TaxFromGross(amount, taxRate),
		})
	}

	if pm := ord.PaymentMethod; pm != nil && !pm.Fee.IsZero() {
		taxRate := order.EncodeTaxRate(pm.TaxRate)
		amount := order.ToMinorUnits(pm.Fee)
		runningTotal += amount

		lines = append(lines, klarna.OrderLine{
			Type:           klarna.OrderLineTypeSurcharge,
			Reference:      "payment",
			Name:           settings.feeLabel(pm.Name),
			Quantity:       1,
			UnitPrice:      amount,
			TaxRate:        taxRate,
			TotalAmount:    amount,
			TotalTaxAmount: order.TaxFromGross(amount, taxRate),
		})
	}

	// The residual is the order-level adjustment: negative for discounts,
	// positive for surcharges. It also absorbs per-line rounding residue,
	// which keeps Klarna's line-sum validation satisfied.
	switch adjustment := order.ToMinorUnits(ord.TotalPrice) - runningTotal; {
	case adjustment < 0:
		lines = append(lines, klarna.OrderLine{
			Type:        klarna.OrderLineTypeDiscount,
			Reference:   "discounts",
			Name:        settings.discountsLabel(),
			Quantity:    1,
			UnitPrice:   adjustment,
			TotalAmount: adjustment,
		})
	case adjustment > 0:
		lines = append(lines, klarna.OrderLine{
			Type:        klarna.OrderLineTypeSurcharge,
			Reference:   "fees",
			Name:        settings.additionalFeesLabel(),
			Quantity:    1,
			UnitPrice:   adjustment,
			TotalAmount: adjustment,
		})
	}

	return lines
}

func lineType(l order.Line, settings HppSettings) string {
	if l.Property(settings.ProductTypePropertyAlias) == klarna.OrderLineTypeDigital {
		return klarna.OrderLineTypeDigital
	}
	return klarna.OrderLineTypePhysical
}

func buildBillingAddress(ord *order.Order, settings HppSettings, country string) *klarna.Address {
	return &klarna.Address{
		GivenName:      ord.Customer.FirstName,
		FamilyName:     ord.Customer.LastName,
		Email:          ord.Customer.Email,
		StreetAddress:  ord.Property(settings.BillingAddressLine1PropertyAlias),
		StreetAddress2: ord.Property(settings.BillingAddressLine2PropertyAlias),
		City:           ord.Property(settings.BillingAddressCityPropertyAlias),
		Region:         ord.Property(settings.BillingAddressStatePropertyAlias),
		PostalCode:     ord.Property(settings.BillingAddressZipCodePropertyAlias),
		Country:        country,
	}
}
