package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/warrantydesk/tracking-service/internal/config"
	"github.com/warrantydesk/tracking-service/internal/database"
	"github.com/warrantydesk/tracking-service/internal/model"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample warranty tickets (one per status) and print their tracking codes",
	RunE:  runSeed,
}

// seedSpec describes one sample ticket. Approved/rejected/scheduled
// tickets get a manager action; scheduled ones also get an appointment.
type seedSpec struct {
	userName  string
	email     string
	phone     string
	product   model.Product
	issueType string
	status    model.TicketStatus
	remarks   string
}

var seedSpecs = []seedSpec{
	{
		userName: "Alice Morgan", email: "alice.morgan@example.com", phone: "+15550100001",
		product:   model.Product{Name: "FrostLine Refrigerator", Brand: "FrostLine", Model: "FL-420", WarrantyMonths: 24},
		issueType: "warranty_claim", status: model.StatusPending,
	},
	{
		userName: "Bruno Keller", email: "bruno.keller@example.com", phone: "+15550100002",
		product:   model.Product{Name: "AeroCool Split AC", Brand: "AeroCool", Model: "AC-900X", WarrantyMonths: 36},
		issueType: "warranty_claim", status: model.StatusValidated,
	},
	{
		userName: "Chen Wei", email: "chen.wei@example.com", phone: "+15550100003",
		product:   model.Product{Name: "TurboWash Washing Machine", Brand: "TurboWash", Model: "TW-7", WarrantyMonths: 12},
		issueType: "warranty_claim", status: model.StatusManagerReview,
	},
	{
		userName: "Dana Petrov", email: "dana.petrov@example.com", phone: "+15550100004",
		product:   model.Product{Name: "BrightView 55\" TV", Brand: "BrightView", Model: "BV-55Q", WarrantyMonths: 24},
		issueType: "warranty_claim", status: model.StatusApproved,
		remarks: "Invoice verified, claim within warranty period.",
	},
	{
		userName: "Elif Yilmaz", email: "elif.yilmaz@example.com", phone: "+15550100005",
		product:   model.Product{Name: "QuickBrew Espresso Machine", Brand: "QuickBrew", Model: "QB-2", WarrantyMonths: 12},
		issueType: "warranty_claim", status: model.StatusRejected,
		remarks: "Damage not covered: liquid ingress outside warranty terms.",
	},
	{
		userName: "Farid Haddad", email: "farid.haddad@example.com", phone: "+15550100006",
		product:   model.Product{Name: "SilentMax Dishwasher", Brand: "SilentMax", Model: "SM-12", WarrantyMonths: 24},
		issueType: "warranty_claim", status: model.StatusScheduled,
		remarks: "Approved, routed to nearest service center.",
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	now := time.Now()
	var codes []string
	err = db.Transaction(func(tx *gorm.DB) error {
		for i, spec := range seedSpecs {
			user := model.User{Name: spec.userName, Email: spec.email, Phone: spec.phone}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", spec.email, err)
			}
			product := spec.product
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("create product %s: %w", product.Name, err)
			}
			purchase := model.Purchase{
				UserID:         user.ID,
				ProductID:      product.ID,
				InvoiceNumber:  fmt.Sprintf("INV-2026-%04d", i+1),
				InvoiceFileURL: fmt.Sprintf("https://files.example.com/invoices/INV-2026-%04d.pdf", i+1),
				PurchaseDate:   now.AddDate(0, -3, -i),
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return fmt.Errorf("create purchase: %w", err)
			}
			ticket := model.Ticket{
				UserID:       user.ID,
				PurchaseID:   purchase.ID,
				IssueType:    spec.issueType,
				Description:  fmt.Sprintf("%s stopped working under normal use.", product.Name),
				Status:       spec.status,
				TrackingCode: uuid.NewString(),
				CreatedAt:    now.AddDate(0, 0, -len(seedSpecs)+i),
			}
			if err := tx.Create(&ticket).Error; err != nil {
				return fmt.Errorf("create ticket: %w", err)
			}

			tx.Create(&model.AgentLog{
				TicketID: ticket.ID,
				Action:   "extract_invoice",
				Success:  true,
				Details:  fmt.Sprintf("invoice_number=%s", purchase.InvoiceNumber),
			})
			if spec.status != model.StatusPending {
				tx.Create(&model.AgentLog{
					TicketID: ticket.ID,
					Action:   "validate_warranty",
					Success:  true,
					Details:  fmt.Sprintf("warranty_months=%d", product.WarrantyMonths),
				})
			}

			switch spec.status {
			case model.StatusApproved, model.StatusScheduled:
				if err := tx.Create(&model.ManagerAction{
					TicketID:   ticket.ID,
					Approved:   true,
					Remarks:    spec.remarks,
					ActionDate: ticket.CreatedAt.AddDate(0, 0, 1),
				}).Error; err != nil {
					return fmt.Errorf("create manager action: %w", err)
				}
			case model.StatusRejected:
				if err := tx.Create(&model.ManagerAction{
					TicketID:   ticket.ID,
					Approved:   false,
					Remarks:    spec.remarks,
					ActionDate: ticket.CreatedAt.AddDate(0, 0, 1),
				}).Error; err != nil {
					return fmt.Errorf("create manager action: %w", err)
				}
			}
			if spec.status == model.StatusScheduled {
				if err := tx.Create(&model.ServiceAppointment{
					TicketID:        ticket.ID,
					ServiceCenter:   "Downtown Service Center",
					AppointmentDate: now.AddDate(0, 0, 7),
				}).Error; err != nil {
					return fmt.Errorf("create appointment: %w", err)
				}
			}
			codes = append(codes, fmt.Sprintf("%s  %-14s  %s", ticket.TrackingCode, spec.status, spec.userName))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Printf("seed: created %d tickets", len(codes))
	for _, line := range codes {
		fmt.Println(line)
	}
	return nil
}
