package report

import (
	"log/slog"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// Portfolio reports year-to-date disbursement totals.
type Portfolio struct {
	Meta
	SkipLabels []string
	Currency   CurrencyPolicy
}

func (r *Portfolio) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	plan := aggregate.Plan{
		Entities:   aggregate.EntityPolicy{Mode: aggregate.CountPresent, Field: FieldLoan},
		SkipLabels: r.SkipLabels,
	}
	acc, err := r.pass(wb, plan, log)
	if err != nil {
		return nil, err
	}

	amounts := r.Currency.Convert(acc.Values(FieldAmount))
	out := &models.Portfolio{
		TotalPortfolioValue: stats.Sum(amounts),
		TotalLoans:          acc.Entities,
		AverageLoanSize:     stats.Average(amounts),
		SchoolsFinanced:     acc.Distinct(FieldSchool),
		ActiveBranches:      acc.Distinct(FieldBranch),
		LoanSizes:           distribution(amounts, r.Currency.Unit()),
	}
	if acc.Bound(FieldGender) {
		out.OwnerGenderDiversity = genderSplit(acc, FieldGender)
	}
	if acc.Bound(FieldEnrollment) {
		total := stats.Round(acc.Sum(FieldEnrollment))
		out.TotalEnrollment = &total
	}
	return out, nil
}
