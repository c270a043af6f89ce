package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyRepository implements repositories.PropertyRepositoryFacade using
// PostgreSQL.
type PropertyRepository struct {
	BaseRepository
}

var _ repositories.PropertyRepositoryFacade = (*PropertyRepository)(nil)

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveProperty persists a new property.
func (r *PropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	query := `
		INSERT INTO properties (property_id, name, address, purchase_date, purchase_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.Pool.Exec(ctx, query,
		property.PropertyID,
		property.Name,
		property.Address,
		property.PurchaseDate,
		property.PurchasePrice,
		property.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save property", err)
	}
	return nil
}

// FindPropertyByID retrieves a property by its ID.
func (r *PropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `
		SELECT property_id, name, address, purchase_date, purchase_price, created_at
		FROM properties WHERE property_id = $1`
	var p domain.Property
	err := r.Pool.QueryRow(ctx, query, propertyID).Scan(
		&p.PropertyID, &p.Name, &p.Address, &p.PurchaseDate, &p.PurchasePrice, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("property with ID %s not found", propertyID))
		}
		return nil, apperrors.NewAppError(500, "failed to find property", err)
	}
	return &p, nil
}

// ListProperties retrieves all properties ordered by name.
func (r *PropertyRepository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	query := `
		SELECT property_id, name, address, purchase_date, purchase_price, created_at
		FROM properties ORDER BY name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list properties", err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.PropertyID, &p.Name, &p.Address, &p.PurchaseDate, &p.PurchasePrice, &p.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read properties", err)
	}
	return properties, nil
}

// SaveOwner persists a new owner.
func (r *PropertyRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	query := `INSERT INTO owners (owner_id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.Pool.Exec(ctx, query, owner.OwnerID, owner.Name, owner.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, fmt.Sprintf("owner with name %q already exists", owner.Name), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save owner", err)
	}
	return nil
}

// FindOwnerByID retrieves an owner by ID.
func (r *PropertyRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	var o domain.Owner
	err := r.Pool.QueryRow(ctx, `SELECT owner_id, name, created_at FROM owners WHERE owner_id = $1`, ownerID).
		Scan(&o.OwnerID, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("owner with ID %s not found", ownerID))
		}
		return nil, apperrors.NewAppError(500, "failed to find owner", err)
	}
	return &o, nil
}

// FindOwnerByName retrieves an owner by name.
func (r *PropertyRepository) FindOwnerByName(ctx context.Context, name string) (*domain.Owner, error) {
	var o domain.Owner
	err := r.Pool.QueryRow(ctx, `SELECT owner_id, name, created_at FROM owners WHERE name = $1`, name).
		Scan(&o.OwnerID, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("owner with name %q not found", name))
		}
		return nil, apperrors.NewAppError(500, "failed to find owner by name", err)
	}
	return &o, nil
}

// ListOwners retrieves all owners ordered by name.
func (r *PropertyRepository) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	rows, err := r.Pool.Query(ctx, `SELECT owner_id, name, created_at FROM owners ORDER BY name`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list owners", err)
	}
	defer rows.Close()

	owners := make([]domain.Owner, 0)
	for rows.Next() {
		var o domain.Owner
		if err := rows.Scan(&o.OwnerID, &o.Name, &o.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan owner", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read owners", err)
	}
	return owners, nil
}

// SaveOwnership persists a new property-owner link.
func (r *PropertyRepository) SaveOwnership(ctx context.Context, ownership domain.Ownership) error {
	query := `
		INSERT INTO property_ownership (ownership_id, property_id, owner_id, capital_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.Pool.Exec(ctx, query,
		ownership.OwnershipID,
		ownership.PropertyID,
		ownership.OwnerID,
		ownership.CapitalAccountID,
		ownership.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "owner is already linked to this property", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save ownership", err)
	}
	return nil
}

// ListOwnership retrieves all ownership links for a property, joined with the
// owner and capital account names.
func (r *PropertyRepository) ListOwnership(ctx context.Context, propertyID string) ([]domain.Ownership, error) {
	query := `
		SELECT po.ownership_id, po.property_id, po.owner_id, po.capital_account_id, o.name, a.name, po.created_at
		FROM property_ownership po
		JOIN owners o ON o.owner_id = po.owner_id
		JOIN accounts a ON a.account_id = po.capital_account_id
		WHERE po.property_id = $1
		ORDER BY o.name`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ownership", err)
	}
	defer rows.Close()

	links := make([]domain.Ownership, 0)
	for rows.Next() {
		var ow domain.Ownership
		if err := rows.Scan(
			&ow.OwnershipID,
			&ow.PropertyID,
			&ow.OwnerID,
			&ow.CapitalAccountID,
			&ow.OwnerName,
			&ow.CapitalAccountName,
			&ow.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ownership", err)
		}
		links = append(links, ow)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read ownership", err)
	}
	return links, nil
}

// SaveValuation persists a dated valuation.
func (r *PropertyRepository) SaveValuation(ctx context.Context, valuation domain.PropertyValuation) error {
	query := `
		INSERT INTO property_valuations (valuation_id, property_id, valuation, valuation_date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.Pool.Exec(ctx, query,
		valuation.ValuationID,
		valuation.PropertyID,
		valuation.Valuation,
		valuation.ValuationDate,
		valuation.Source,
		valuation.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save valuation", err)
	}
	return nil
}

// FindLatestValuation retrieves the most recent valuation by date. Ties on the
// date break by creation time.
func (r *PropertyRepository) FindLatestValuation(ctx context.Context, propertyID string) (*domain.PropertyValuation, error) {
	query := `
		SELECT valuation_id, property_id, valuation, valuation_date, source, created_at
		FROM property_valuations
		WHERE property_id = $1
		ORDER BY valuation_date DESC, created_at DESC
		LIMIT 1`
	var v domain.PropertyValuation
	err := r.Pool.QueryRow(ctx, query, propertyID).Scan(
		&v.ValuationID, &v.PropertyID, &v.Valuation, &v.ValuationDate, &v.Source, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no valuation recorded for property %s", propertyID))
		}
		return nil, apperrors.NewAppError(500, "failed to find latest valuation", err)
	}
	return &v, nil
}

// ListValuations retrieves all valuations for a property, newest first.
func (r *PropertyRepository) ListValuations(ctx context.Context, propertyID string) ([]domain.PropertyValuation, error) {
	query := `
		SELECT valuation_id, property_id, valuation, valuation_date, source, created_at
		FROM property_valuations
		WHERE property_id = $1
		ORDER BY valuation_date DESC, created_at DESC`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list valuations", err)
	}
	defer rows.Close()

	valuations := make([]domain.PropertyValuation, 0)
	for rows.Next() {
		var v domain.PropertyValuation
		if err := rows.Scan(&v.ValuationID, &v.PropertyID, &v.Valuation, &v.ValuationDate, &v.Source, &v.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan valuation", err)
		}
		valuations = append(valuations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read valuations", err)
	}
	return valuations, nil
}

const mortgageColumns = `mortgage_id, property_id, lender, original_amount, start_date, term_months, liability_account_id, created_at`

func scanMortgage(row pgx.Row) (domain.Mortgage, error) {
	var m domain.Mortgage
	err := row.Scan(
		&m.MortgageID,
		&m.PropertyID,
		&m.Lender,
		&m.OriginalAmount,
		&m.StartDate,
		&m.TermMonths,
		&m.LiabilityAccountID,
		&m.CreatedAt,
	)
	return m, err
}

// SaveMortgage persists a new mortgage.
func (r *PropertyRepository) SaveMortgage(ctx context.Context, mortgage domain.Mortgage) error {
	query := `
		INSERT INTO mortgages (mortgage_id, property_id, lender, original_amount, start_date, term_months, liability_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.Pool.Exec(ctx, query,
		mortgage.MortgageID,
		mortgage.PropertyID,
		mortgage.Lender,
		mortgage.OriginalAmount,
		mortgage.StartDate,
		mortgage.TermMonths,
		mortgage.LiabilityAccountID,
		mortgage.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save mortgage", err)
	}
	return nil
}

// FindMortgageByID retrieves a mortgage by its ID.
func (r *PropertyRepository) FindMortgageByID(ctx context.Context, mortgageID string) (*domain.Mortgage, error) {
	query := fmt.Sprintf(`SELECT %s FROM mortgages WHERE mortgage_id = $1`, mortgageColumns)
	mortgage, err := scanMortgage(r.Pool.QueryRow(ctx, query, mortgageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("mortgage with ID %s not found", mortgageID))
		}
		return nil, apperrors.NewAppError(500, "failed to find mortgage", err)
	}
	return &mortgage, nil
}

// ListMortgages retrieves all mortgages for a property.
func (r *PropertyRepository) ListMortgages(ctx context.Context, propertyID string) ([]domain.Mortgage, error) {
	query := fmt.Sprintf(`SELECT %s FROM mortgages WHERE property_id = $1 ORDER BY start_date`, mortgageColumns)
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list mortgages", err)
	}
	defer rows.Close()

	mortgages := make([]domain.Mortgage, 0)
	for rows.Next() {
		mortgage, err := scanMortgage(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan mortgage", err)
		}
		mortgages = append(mortgages, mortgage)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read mortgages", err)
	}
	return mortgages, nil
}

// SaveMortgageRate persists a rate change.
func (r *PropertyRepository) SaveMortgageRate(ctx context.Context, rate domain.MortgageRate) error {
	query := `
		INSERT INTO mortgage_rates (rate_id, mortgage_id, rate, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.Pool.Exec(ctx, query, rate.RateID, rate.MortgageID, rate.Rate, rate.EffectiveDate, rate.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save mortgage rate", err)
	}
	return nil
}

// ListMortgageRates retrieves the rate history of a mortgage, oldest first.
func (r *PropertyRepository) ListMortgageRates(ctx context.Context, mortgageID string) ([]domain.MortgageRate, error) {
	query := `
		SELECT rate_id, mortgage_id, rate, effective_date, created_at
		FROM mortgage_rates
		WHERE mortgage_id = $1
		ORDER BY effective_date`
	rows, err := r.Pool.Query(ctx, query, mortgageID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list mortgage rates", err)
	}
	defer rows.Close()

	rates := make([]domain.MortgageRate, 0)
	for rows.Next() {
		var rate domain.MortgageRate
		if err := rows.Scan(&rate.RateID, &rate.MortgageID, &rate.Rate, &rate.EffectiveDate, &rate.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan mortgage rate", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read mortgage rates", err)
	}
	return rates, nil
}

// SaveTransfer persists an equity transfer record.
func (r *PropertyRepository) SaveTransfer(ctx context.Context, transfer domain.PropertyTransfer) error {
	query := `
		INSERT INTO property_transfers (transfer_id, from_property_id, to_property_id, owner_id, amount, journal_entry_id, transfer_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.Pool.Exec(ctx, query,
		transfer.TransferID,
		transfer.FromPropertyID,
		transfer.ToPropertyID,
		transfer.OwnerID,
		transfer.Amount,
		transfer.JournalEntryID,
		transfer.TransferDate,
		transfer.Description,
		transfer.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save property transfer", err)
	}
	return nil
}

// ListTransfers retrieves transfers, optionally filtered by property (either
// side) and/or owner, newest first.
func (r *PropertyRepository) ListTransfers(ctx context.Context, propertyID, ownerID *string) ([]domain.PropertyTransfer, error) {
	query := `
		SELECT transfer_id, from_property_id, to_property_id, owner_id, amount, journal_entry_id, transfer_date, description, created_at
		FROM property_transfers`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if propertyID != nil {
		args = append(args, *propertyID)
		conditions = append(conditions, fmt.Sprintf("(from_property_id = $%d OR to_property_id = $%d)", len(args), len(args)))
	}
	if ownerID != nil {
		args = append(args, *ownerID)
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY transfer_date DESC, created_at DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list property transfers", err)
	}
	defer rows.Close()

	transfers := make([]domain.PropertyTransfer, 0)
	for rows.Next() {
		var t domain.PropertyTransfer
		if err := rows.Scan(
			&t.TransferID,
			&t.FromPropertyID,
			&t.ToPropertyID,
			&t.OwnerID,
			&t.Amount,
			&t.JournalEntryID,
			&t.TransferDate,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan property transfer", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read property transfers", err)
	}
	return transfers, nil
}

// UpsertAllocationRule inserts or replaces the allocation percentage for one
// (property, owner, expense type) triple.
func (r *PropertyRepository) UpsertAllocationRule(ctx context.Context, rule domain.ExpenseAllocationRule) error {
	query := `
		INSERT INTO expense_allocation_rules (rule_id, property_id, owner_id, allocation_pct, expense_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (property_id, owner_id, expense_type)
		DO UPDATE SET allocation_pct = EXCLUDED.allocation_pct`
	_, err := r.Pool.Exec(ctx, query,
		rule.RuleID,
		rule.PropertyID,
		rule.OwnerID,
		rule.AllocationPct,
		rule.ExpenseType,
		rule.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert allocation rule", err)
	}
	return nil
}

// ListAllocationRules retrieves the allocation rules for a property.
func (r *PropertyRepository) ListAllocationRules(ctx context.Context, propertyID string) ([]domain.ExpenseAllocationRule, error) {
	query := `
		SELECT rule_id, property_id, owner_id, allocation_pct, expense_type, created_at
		FROM expense_allocation_rules
		WHERE property_id = $1
		ORDER BY expense_type, created_at`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list allocation rules", err)
	}
	defer rows.Close()

	rules := make([]domain.ExpenseAllocationRule, 0)
	for rows.Next() {
		var rule domain.ExpenseAllocationRule
		if err := rows.Scan(&rule.RuleID, &rule.PropertyID, &rule.OwnerID, &rule.AllocationPct, &rule.ExpenseType, &rule.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan allocation rule", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read allocation rules", err)
	}
	return rules, nil
}
