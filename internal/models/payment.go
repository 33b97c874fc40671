package models

// Provider платёжный провайдер.
type Provider string

const (
	ProviderStripe   Provider = "stripe"
	ProviderPayPal   Provider = "paypal"
	ProviderCoinGate Provider = "coingate"
)

// StripeConfig публичные параметры Stripe.
type StripeConfig struct {
	Enabled   bool   `json:"enabled"`
	PublicKey string `json:"public_key"`
}

// PayPalConfig публичные параметры PayPal.
type PayPalConfig struct {
	Enabled  bool   `json:"enabled"`
	ClientID string `json:"client_id"`
	Mode     string `json:"mode,omitempty"`
}

// CoinGateConfig публичные параметры CoinGate.
type CoinGateConfig struct {
	Enabled    bool     `json:"enabled"`
	Currencies []string `json:"currencies,omitempty"`
}

// Providers набор провайдеров из конфигурации оплаты.
type Providers struct {
	Stripe   StripeConfig   `json:"stripe"`
	PayPal   PayPalConfig   `json:"paypal"`
	CoinGate CoinGateConfig `json:"coingate"`
}

// PaymentConfig конфигурация оплаты, загружается один раз за сессию.
type PaymentConfig struct {
	Price     float64   `json:"price"`
	Currency  string    `json:"currency,omitempty"`
	Providers Providers `json:"providers"`
}
