// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/minicrm-backend/internal/model"
)

// RenderTemplate substitutes {token} placeholders from data.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// RenderMessage personalizes a campaign template for one customer.
// {name} is the documented token; {email} and {city} work too.
func RenderMessage(template string, customer model.Customer) string {
	return RenderTemplate(template, map[string]string{
		"name":  customer.Name,
		"email": customer.Email,
		"city":  customer.City,
	})
}
