package provider

// SettingDefinition describes one recognized provider setting for the host's
// settings UI.
type SettingDefinition struct {
	Key         string
	Name        string
	Description string
	Default     string
	Advanced    bool
}

// SettingDefinitions enumerates every setting the provider recognizes.
func SettingDefinitions() []SettingDefinition {
	return []SettingDefinition{
		{Key: "continueUrl", Name: "Continue URL", Description: "The URL to continue to after this provider has done processing. eg: /continue/"},
		{Key: "cancelUrl", Name: "Cancel URL", Description: "The URL to return to if the payment attempt is canceled. eg: /cancel/"},
		{Key: "errorUrl", Name: "Error URL", Description: "The URL to return to if the payment attempt errors. eg: /error/"},
		{Key: "billingAddressLine1PropertyAlias", Name: "Billing Address (Line 1) Property Alias", Description: "The order property alias containing line 1 of the billing address"},
		{Key: "billingAddressLine2PropertyAlias", Name: "Billing Address (Line 2) Property Alias", Description: "The order property alias containing line 2 of the billing address"},
		{Key: "billingAddressCityPropertyAlias", Name: "Billing Address City Property Alias", Description: "The order property alias containing the city of the billing address"},
		{Key: "billingAddressStatePropertyAlias", Name: "Billing Address State Property Alias", Description: "The order property alias containing the state of the billing address"},
		{Key: "billingAddressZipCodePropertyAlias", Name: "Billing Address ZipCode Property Alias", Description: "The order property alias containing the zip code of the billing address"},
		{Key: "apiRegion", Name: "API Region", Description: "The Klarna API Region to use. Options are EUROPE, NORTH_AMERICA and OCEANIA", Default: "EUROPE"},
		{Key: "testApiUsername", Name: "Test API Username", Description: "The Username to use when connecting to the test Klarna API"},
		{Key: "testApiPassword", Name: "Test API Password", Description: "The Password to use when connecting to the test Klarna API"},
		{Key: "liveApiUsername", Name: "Live API Username", Description: "The Username to use when connecting to the live Klarna API"},
		{Key: "liveApiPassword", Name: "Live API Password", Description: "The Password to use when connecting to the live Klarna API"},
		{Key: "capture", Name: "Capture", Description: "Flag indicating whether to immediately capture the payment, or whether to just authorize the payment for later (manual) capture."},
		{Key: "testMode", Name: "Test Mode", Description: "Set whether to process payments in test mode."},
		{Key: "paymentPageLogoUrl", Name: "Payment Page Logo Url", Description: "Fully qualified URL of a logo image to display on the payment page.", Advanced: true},
		{Key: "paymentPagePageTitle", Name: "Payment Page Page Title", Description: "A custom title to display on the payment page.", Advanced: true},
		{Key: "productTypePropertyAlias", Name: "Product Type Property Alias", Description: "The order line property alias containing the type of the product. Property value can be one of either 'physical' or 'digital'.", Advanced: true},
		{Key: "paymentMethodCategories", Name: "Payment Method Categories", Description: "Comma separated list of payment method categories to show on the payment page. If empty, all allowable options will be presented. Options are DIRECT_DEBIT, DIRECT_BANK_TRANSFER, PAY_NOW, PAY_LATER and PAY_OVER_TIME", Advanced: true},
		{Key: "paymentMethodCategory", Name: "Payment Method Category", Description: "The payment method category to show on the payment page. Options are DIRECT_DEBIT, DIRECT_BANK_TRANSFER, PAY_NOW, PAY_LATER and PAY_OVER_TIME", Advanced: true},
		{Key: "enableFallbacks", Name: "Enable Fallbacks", Description: "Set whether to fallback to other payment options if the initial payment attempt fails before redirecting back to the site.", Advanced: true},
		{Key: "feeLabelTemplate", Name: "Fee Label Template", Description: "Template string to use for formatting fee order line labels such as shipping or payment method fees.", Default: "%s Fee", Advanced: true},
		{Key: "discountsLabel", Name: "Discounts Label", Description: "The label to use for the discounts order line.", Default: "Discounts", Advanced: true},
		{Key: "additionalFeesLabel", Name: "Additional Fees Label", Description: "The label to use for the additional fees order line.", Default: "Additional Fees", Advanced: true},
	}
}

// TransactionMetadataDefinition describes one metadata key the provider
// writes to the order's property bag.
type TransactionMetadataDefinition struct {
	Key  string
	Name string
}

// TransactionMetadataDefinitions enumerates the metadata keys the provider
// persists against an order.
func TransactionMetadataDefinitions() []TransactionMetadataDefinition {
	return []TransactionMetadataDefinition{
		{Key: MetaSessionID, Name: "Klarna Session ID"},
		{Key: MetaSecretToken, Name: "Klarna Secret Token"},
		{Key: MetaOrderID, Name: "Klarna Order ID"},
		{Key: MetaReference, Name: "Klarna Reference"},
	}
}
