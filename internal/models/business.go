package models

import (
	"time"
)

// AutomationRecipe is a stored configuration row for a prebuilt automation.
// Recipes are descriptive only: toggling one flips the Enabled flag and
// nothing else. No executor or scheduler consumes these rows.
type AutomationRecipe struct {
	ID        int64          `json:"id"`
	AccountID int64          `json:"-"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Config    map[string]any `json:"config"`
	Enabled   bool           `json:"enabled"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// RevenueRecord holds one month of revenue/cost/order figures.
// Unique per (account, month, year); writes upsert.
type RevenueRecord struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"-"`
	Month     string    `json:"month"`
	Year      int       `json:"year"`
	Revenue   int64     `json:"revenue"`
	Cost      int64     `json:"cost"`
	Orders    int       `json:"orders"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SalesChannel is a marketplace or storefront the business sells through.
type SalesChannel struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"-"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// Integration stores third-party credentials as an inert configuration row.
type Integration struct {
	ID          int64             `json:"id"`
	AccountID   int64             `json:"-"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Config      map[string]string `json:"config"`
	IsConnected bool              `json:"isConnected"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Insight is a generated analysis row shown on the dashboard.
type Insight struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"-"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // "warning", "success", "info"
	Message   string    `json:"message"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// IntegrationType describes one connectable third-party service and the
// config fields it requires.
type IntegrationType struct {
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Fields      []string `json:"fields"`
	Description string   `json:"description"`
}

// IntegrationTypes is the catalog of supported integrations, keyed by type id.
var IntegrationTypes = map[string]IntegrationType{
	"whatsapp": {
		Name:        "WhatsApp Business",
		Icon:        "💬",
		Fields:      []string{"phoneNumber", "apiKey", "businessId"},
		Description: "Connect WhatsApp Business API for auto-replies and notifications",
	},
	"email": {
		Name:        "Email SMTP",
		Icon:        "📧",
		Fields:      []string{"smtpHost", "smtpPort", "smtpUser", "smtpPass", "fromEmail", "fromName"},
		Description: "Send automated emails via your SMTP server",
	},
	"sms": {
		Name:        "SMS Gateway",
		Icon:        "📱",
		Fields:      []string{"provider", "apiKey", "senderId"},
		Description: "Send SMS notifications (Twilio, Nexmo, etc.)",
	},
	"telegram": {
		Name:        "Telegram Bot",
		Icon:        "✈️",
		Fields:      []string{"botToken", "chatId"},
		Description: "Send notifications via Telegram bot",
	},
	"shopee": {
		Name:        "Shopee",
		Icon:        "🛒",
		Fields:      []string{"shopId", "accessToken", "refreshToken"},
		Description: "Sync orders and inventory from Shopee",
	},
	"tokopedia": {
		Name:        "Tokopedia",
		Icon:        "🏪",
		Fields:      []string{"shopId", "clientId", "clientSecret"},
		Description: "Sync orders and inventory from Tokopedia",
	},
	"lazada": {
		Name:        "Lazada",
		Icon:        "📦",
		Fields:      []string{"sellerId", "accessToken", "refreshToken"},
		Description: "Sync orders and inventory from Lazada",
	},
	"tiktok": {
		Name:        "TikTok Shop",
		Icon:        "🎵",
		Fields:      []string{"shopId", "accessToken"},
		Description: "Sync orders from TikTok Shop",
	},
}
