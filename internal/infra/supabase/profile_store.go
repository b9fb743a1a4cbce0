package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fundascope/sme-funding-bfa-go/internal/domain"
	"github.com/fundascope/sme-funding-bfa-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Applicant profiles — read and upsert via PostgREST
// ============================================================

// supabaseApplicant maps Supabase table columns to our domain.
// Columns are nullable to preserve the unknown state of each answer.
type supabaseApplicant struct {
	ApplicantID          string   `json:"applicant_id,omitempty"`
	Industry             *string  `json:"industry"`
	YearsTrading         *float64 `json:"years_trading"`
	MonthlyTurnover      *float64 `json:"monthly_turnover"`
	VATRegistered        *bool    `json:"vat_registered"`
	AmountRequested      *float64 `json:"amount_requested"`
	UseOfFunds           *string  `json:"use_of_funds"`
	UrgencyDays          *int     `json:"urgency_days"`
	Province             *string  `json:"province"`
	CollateralAcceptable *bool    `json:"collateral_acceptable"`
	SARegistered         *bool    `json:"sa_registered"`
	SADirector           *bool    `json:"sa_director"`
	BankStatements       *bool    `json:"bank_statements"`
	ContactName          *string  `json:"contact_name"`
	ContactEmail         *string  `json:"contact_email"`
	ContactPhone         *string  `json:"contact_phone"`
}

func (r supabaseApplicant) toDomain() domain.Profile {
	p := domain.Profile{
		Industry:             r.Industry,
		YearsTrading:         r.YearsTrading,
		MonthlyTurnover:      r.MonthlyTurnover,
		VATRegistered:        r.VATRegistered,
		AmountRequested:      r.AmountRequested,
		UseOfFunds:           r.UseOfFunds,
		UrgencyDays:          r.UrgencyDays,
		Province:             r.Province,
		CollateralAcceptable: r.CollateralAcceptable,
		SARegistered:         r.SARegistered,
		SADirector:           r.SADirector,
		BankStatements:       r.BankStatements,
	}
	if r.ContactName != nil || r.ContactEmail != nil || r.ContactPhone != nil {
		contact := domain.Contact{}
		if r.ContactName != nil {
			contact.Name = *r.ContactName
		}
		if r.ContactEmail != nil {
			contact.Email = *r.ContactEmail
		}
		if r.ContactPhone != nil {
			contact.Phone = *r.ContactPhone
		}
		p.Contact = &contact
	}
	return p
}

func fromDomain(applicantID string, p domain.Profile) supabaseApplicant {
	row := supabaseApplicant{
		ApplicantID:          applicantID,
		Industry:             p.Industry,
		YearsTrading:         p.YearsTrading,
		MonthlyTurnover:      p.MonthlyTurnover,
		VATRegistered:        p.VATRegistered,
		AmountRequested:      p.AmountRequested,
		UseOfFunds:           p.UseOfFunds,
		UrgencyDays:          p.UrgencyDays,
		Province:             p.Province,
		CollateralAcceptable: p.CollateralAcceptable,
		SARegistered:         p.SARegistered,
		SADirector:           p.SADirector,
		BankStatements:       p.BankStatements,
	}
	if p.Contact != nil {
		if p.Contact.Name != "" {
			row.ContactName = &p.Contact.Name
		}
		if p.Contact.Email != "" {
			row.ContactEmail = &p.Contact.Email
		}
		if p.Contact.Phone != "" {
			row.ContactPhone = &p.Contact.Phone
		}
	}
	return row
}

// GetApplicantProfile fetches an applicant profile from Supabase.
func (c *Client) GetApplicantProfile(ctx context.Context, applicantID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetApplicantProfile")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	var profile *domain.Profile

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("applicant_profiles?applicant_id=eq.%s&limit=1", applicantID)
			body, err := c.doRequest(ctx, http.MethodGet, path)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "profile", ID: applicantID}
			}

			var rows []supabaseApplicant
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode profile: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrNotFound{Resource: "profile", ID: applicantID}
			}

			p := rows[0].toDomain()
			profile = &p
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/profile", Err: err}
	}

	return profile, nil
}

// SaveApplicantProfile upserts the full merged profile for an applicant.
// Unknown answers are persisted as NULL so they stay unknown on read.
func (c *Client) SaveApplicantProfile(ctx context.Context, applicantID string, profile domain.Profile) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveApplicantProfile")
	defer span.End()
	span.SetAttributes(attribute.String("applicant.id", applicantID))

	row := fromDomain(applicantID, profile)

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			_, err := c.doPost(ctx, "applicant_profiles?on_conflict=applicant_id", row, "resolution=merge-duplicates,return=minimal")
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/profile", Err: err}
	}
	return nil
}
