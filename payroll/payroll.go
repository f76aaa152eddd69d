// Package payroll holds the payroll settings of the HR modules: the wage
// currency of contracts and the logo and signature printed on payslips.
package payroll

import (
	"context"
	"fmt"

	"github.com/warp/hr-extensions/hr"
)

type Service struct {
	contracts hr.ContractStore
	companies hr.CompanyStore
}

func NewService(contracts hr.ContractStore, companies hr.CompanyStore) *Service {
	return &Service{contracts: contracts, companies: companies}
}

// CreateContract saves a contract; an empty currency defaults to LKR.
func (s *Service) CreateContract(ctx context.Context, c hr.Contract) (*hr.Contract, error) {
	if c.EmployeeID == 0 {
		return nil, fmt.Errorf("contract employee: %w", hr.ErrRequiredField)
	}
	cur, err := hr.ParseCurrency(string(c.Currency))
	if err != nil {
		return nil, err
	}
	c.Currency = cur

	id, err := s.contracts.CreateContract(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.contracts.GetContract(ctx, id)
}

// SetCurrency changes the wage currency of a contract.
func (s *Service) SetCurrency(ctx context.Context, id hr.ContractID, currency string) (*hr.Contract, error) {
	if currency == "" {
		return nil, fmt.Errorf("currency: %w", hr.ErrRequiredField)
	}
	cur, err := hr.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.SetContractCurrency(ctx, id, cur); err != nil {
		return nil, err
	}
	return s.contracts.GetContract(ctx, id)
}

// Branding returns the company's payslip logo and signature.
func (s *Service) Branding(ctx context.Context, id hr.CompanyID) (*hr.Company, error) {
	return s.companies.GetCompany(ctx, id)
}

// UpdateBranding replaces the payslip logo and signature.
func (s *Service) UpdateBranding(ctx context.Context, id hr.CompanyID, logo, sign []byte) (*hr.Company, error) {
	if err := s.companies.SetPayslipBranding(ctx, id, logo, sign); err != nil {
		return nil, err
	}
	return s.companies.GetCompany(ctx, id)
}
