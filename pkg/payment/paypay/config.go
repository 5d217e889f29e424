package paypay

import "fmt"

// Config holds the PayPay merchant credentials and callback URLs
type Config struct {
	APIKey      string
	MerchantID  string
	BaseURL     string
	RedirectURL string
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("paypay: API key is required")
	}
	if c.MerchantID == "" {
		return fmt.Errorf("paypay: merchant ID is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("paypay: base URL is required")
	}
	return nil
}
