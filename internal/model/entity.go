package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(150);not null" json:"name"`
	Brand          string    `gorm:"type:varchar(100)" json:"brand,omitempty"`
	Model          string    `gorm:"type:varchar(100)" json:"model,omitempty"`
	WarrantyMonths int       `gorm:"default:12" json:"warranty_months"`
	CreatedAt      time.Time `json:"created_at"`
}

type Purchase struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"index;not null" json:"user_id"`
	ProductID      uint64    `gorm:"index;not null" json:"product_id"`
	Product        Product   `json:"product"`
	InvoiceNumber  string    `gorm:"type:varchar(100);not null" json:"invoice_number"`
	InvoiceFileURL string    `gorm:"type:text" json:"invoice_file_url,omitempty"`
	PurchaseDate   time.Time `gorm:"not null" json:"purchase_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// Ticket is the central entity. Status is mutated only by the external
// claim-processing workflow; this service just reads it.
type Ticket struct {
	ID           uint64       `gorm:"primaryKey" json:"id"`
	UserID       uint64       `gorm:"index;not null" json:"user_id"`
	User         User         `json:"user"`
	PurchaseID   uint64       `gorm:"index;not null" json:"purchase_id"`
	Purchase     Purchase     `json:"purchase"`
	IssueType    string       `gorm:"type:varchar(50);not null" json:"issue_type"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
	Status       TicketStatus `gorm:"type:varchar(30);index;default:pending" json:"status"`
	TrackingCode string       `gorm:"type:uuid;uniqueIndex;not null" json:"tracking_code"`
	CreatedAt    time.Time    `json:"created_at"`

	ManagerAction *ManagerAction      `gorm:"foreignKey:TicketID" json:"manager_action,omitempty"`
	Appointment   *ServiceAppointment `gorm:"foreignKey:TicketID" json:"appointment,omitempty"`
}

// AgentLog records actions the external workflow agent took on a ticket
// (invoice extraction, warranty validation). Written by the agent, read by
// back-office tooling only.
type AgentLog struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	TicketID  uint64    `gorm:"index;not null" json:"ticket_id"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Success   bool      `gorm:"default:false" json:"success"`
	Details   string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ManagerAction struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	TicketID   uint64    `gorm:"index;not null" json:"ticket_id"`
	Approved   bool      `gorm:"default:false" json:"approved"`
	Remarks    string    `gorm:"type:text" json:"remarks,omitempty"`
	ActionDate time.Time `gorm:"not null" json:"action_date"`
}

type ServiceAppointment struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	TicketID        uint64    `gorm:"index;not null" json:"ticket_id"`
	ServiceCenter   string    `gorm:"type:varchar(150)" json:"service_center,omitempty"`
	AppointmentDate time.Time `gorm:"not null" json:"appointment_date"`
	CreatedAt       time.Time `json:"created_at"`
}
