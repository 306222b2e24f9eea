package services

import "github.com/arusops/arus/internal/models"

// starterMonths are the revenue rows provisioned for every new account.
var starterMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// defaultRecipes returns the automation recipes provisioned on first
// registration. Only Order Confirmation starts enabled.
func defaultRecipes() []models.AutomationRecipe {
	return []models.AutomationRecipe{
		{Title: "Low Stock Alert", Category: "Inventory", Config: map[string]any{"threshold": 10}, Enabled: false},
		{Title: "Auto Reply WhatsApp", Category: "Customer Service", Config: map[string]any{"message": "Thank you for contacting us! We will respond shortly.", "delay": 5}, Enabled: false},
		{Title: "Flash Sale Alert", Category: "Marketing", Config: map[string]any{"threshold": 20, "channels": []string{"email", "whatsapp"}}, Enabled: false},
		{Title: "Daily Sales Report", Category: "Reports", Config: map[string]any{"frequency": "daily", "channels": []string{"email"}}, Enabled: false},
		{Title: "Price Drop Notification", Category: "Marketing", Config: map[string]any{"threshold": 10, "channels": []string{"push"}}, Enabled: false},
		{Title: "Order Confirmation", Category: "Customer Service", Config: map[string]any{"message": "Your order has been confirmed!", "delay": 0}, Enabled: true},
	}
}
