package handler

import (
	"strings"

	"github.com/warrantydesk/tracking-service/internal/model"
)

// invoicePlaceholder replaces the invoice file reference in public
// responses. The raw URL is never returned.
const invoicePlaceholder = "[PROTECTED]"

// sanitizeTicket masks sensitive fields before a ticket leaves the
// service: email keeps its first character and domain, phone its first
// three and last four digits. Mandatory contract of the lookup endpoint.
func sanitizeTicket(t *model.Ticket) *model.Ticket {
	out := *t
	out.User.Email = maskEmail(t.User.Email)
	out.User.Phone = maskPhone(t.User.Phone)
	if t.Purchase.InvoiceFileURL != "" {
		out.Purchase.InvoiceFileURL = invoicePlaceholder
	}
	return &out
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}

func maskPhone(phone string) string {
	if len(phone) < 7 {
		return phone
	}
	return phone[:3] + "***" + phone[len(phone)-4:]
}
