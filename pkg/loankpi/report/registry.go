package report

import (
	"fmt"
	"sort"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// Registry holds report definitions by name.
type Registry struct {
	reports []Report
	byName  map[string]Report
}

// NewRegistry builds a registry from reports. Names must be unique.
func NewRegistry(reports ...Report) (*Registry, error) {
	r := &Registry{byName: make(map[string]Report, len(reports))}
	for _, rep := range reports {
		name := rep.Definition().Name
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate report %q", name)
		}
		r.byName[name] = rep
		r.reports = append(r.reports, rep)
	}
	return r, nil
}

// Lookup returns the named report.
func (r *Registry) Lookup(name string) (Report, bool) {
	rep, ok := r.byName[name]
	return rep, ok
}

// Names returns every report name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.reports))
	for _, rep := range r.reports {
		names = append(names, rep.Definition().Name)
	}
	sort.Strings(names)
	return names
}

// Reports returns the reports in definition order.
func (r *Registry) Reports() []Report {
	return r.reports
}

var (
	baselineSheet  = parser.SheetMatcher{Any: []string{"baseline", "1st loan"}}
	disbSheet      = parser.SheetMatcher{All: []string{"loan disb", "2025"}}
	allLoansSheet  = parser.SheetMatcher{All: []string{"all loans"}, Any: []string{"sept", "2025"}}
	summarySheet   = parser.SheetMatcher{All: []string{"summary", "all loans"}}
	repaymentSheet = parser.SheetMatcher{All: []string{"sept", "2025"}}
)

func category(name string, col int, synonyms map[string]string) parser.FieldSpec {
	return parser.FieldSpec{
		Name: name, Default: col, Kind: parser.KindCategory,
		Synonyms: synonyms, Roles: parser.RoleCount,
	}
}

func label(name string, col int, roles parser.Role) parser.FieldSpec {
	return parser.FieldSpec{Name: name, Default: col, Kind: parser.KindLabel, Roles: roles}
}

func number(name string, col int, roles parser.Role) parser.FieldSpec {
	return parser.FieldSpec{Name: name, Default: col, Kind: parser.KindNumeric, Roles: roles}
}

func amount(name string, col int, roles parser.Role) parser.FieldSpec {
	return parser.FieldSpec{Name: name, Default: col, Kind: parser.KindCurrency, Positive: true, Roles: roles}
}

// Builtin returns fresh definitions of every dashboard report. Each call
// returns new values, so overrides applied to one registry never leak into
// another.
func Builtin() *Registry {
	purpose := label(FieldPurpose, 9, 0)
	purpose.Headers = []string{"purpose", "loan purpose", "use"}
	purpose.Title = true

	saslPurpose := label(FieldPurpose, 3, 0)
	saslPurpose.Title = true

	premierFees := amount(FieldFees, 42, parser.RoleCollect)
	premierFees.Range = &parser.Range{Min: 10, Max: 5000}

	cycle := number(FieldCycle, 6, parser.RoleCount)
	cycle.Range = &parser.Range{Min: 1, Max: 13}

	reports := []Report{
		&Baseline{
			Meta: Meta{
				Name: "baseline-data", Title: "Baseline data (1st loan)", Program: ProgramPremier,
				Sheet: baselineSheet,
				Fields: []parser.FieldSpec{
					category(FieldGender, 6, parser.GenderSynonyms),
					category(FieldTraining, 14, parser.YesNoSynonyms),
					number(FieldBoys, 16, parser.RoleSum),
					number(FieldGirls, 17, parser.RoleSum),
					number(FieldStudents, 18, parser.RoleSum),
					premierFees,
				},
			},
			Entities: aggregate.EntityPolicy{Mode: aggregate.CountRows},
			Currency: CurrencyPolicy{From: "USD"},
		},
		&Baseline{
			Meta: Meta{
				Name: "sasl-baseline-data", Title: "Baseline form", Program: ProgramSASL,
				Sheet: parser.SheetMatcher{Any: []string{"baseline"}},
				Fields: []parser.FieldSpec{
					amount(FieldSchools, 3, 0),
					category(FieldGender, 4, parser.GenderSynonyms),
					number(FieldBoys, 14, parser.RoleSum),
					number(FieldGirls, 15, parser.RoleSum),
					number(FieldStudents, 16, parser.RoleSum),
					amount(FieldFees, 118, parser.RoleCollect),
				},
			},
			Entities: aggregate.EntityPolicy{Mode: aggregate.SumField, Field: FieldSchools},
		},
		&Portfolio{
			Meta: Meta{
				Name: "ytd-loan-performance", Title: "YTD loan performance", Program: ProgramPremier,
				Sheet: disbSheet,
				Fields: []parser.FieldSpec{
					label(FieldLoan, 0, 0),
					label(FieldBranch, 1, parser.RoleDistinct),
					category(FieldGender, 4, parser.GenderSynonyms),
					label(FieldSchool, 5, parser.RoleDistinct),
					amount(FieldAmount, 9, parser.RoleSum|parser.RoleCollect),
				},
			},
		},
		&Portfolio{
			Meta: Meta{
				Name: "sasl-ytd-loan-performance", Title: "YTD loan performance", Program: ProgramSASL,
				Sheet: disbSheet,
				Fields: []parser.FieldSpec{
					label(FieldLoan, 0, 0),
					label(FieldBranch, 1, parser.RoleDistinct),
					label(FieldSchool, 6, parser.RoleDistinct),
					amount(FieldAmount, 12, parser.RoleSum|parser.RoleCollect),
					amount(FieldEnrollment, 13, parser.RoleSum),
				},
			},
			SkipLabels: []string{"total", "subtotal", "monthly"},
		},
		&Breakdown{
			Meta: Meta{
				Name: "loan-purpose-disbursement", Title: "Disbursement by loan purpose", Program: ProgramPremier,
				Sheet:  allLoansSheet,
				Fields: []parser.FieldSpec{purpose, amount(FieldAmount, 10, 0)},
			},
			Key: FieldPurpose,
		},
		&Breakdown{
			Meta: Meta{
				Name: "sasl-loan-purpose-disbursement", Title: "Disbursement by loan purpose", Program: ProgramSASL,
				Sheet:  allLoansSheet,
				Fields: []parser.FieldSpec{saslPurpose, amount(FieldAmount, 10, 0)},
			},
			Key: FieldPurpose,
		},
		&Breakdown{
			Meta: Meta{
				Name: "top-branches", Title: "Top branches by commitment", Program: ProgramPremier,
				Sheet:  allLoansSheet,
				Fields: []parser.FieldSpec{label(FieldBranch, 1, 0), amount(FieldAmount, 3, 0)},
			},
			Key:   FieldBranch,
			Limit: 10,
		},
		&Breakdown{
			Meta: Meta{
				Name: "sasl-top-branches", Title: "Top branches by commitment", Program: ProgramSASL,
				Sheet:  allLoansSheet,
				Fields: []parser.FieldSpec{label(FieldBranch, 2, 0), amount(FieldAmount, 9, 0)},
			},
			Key:   FieldBranch,
			Limit: 10,
		},
		&Series{
			Meta: Meta{
				Name: "monthly-disbursement-trends", Title: "Monthly disbursement trends", Program: ProgramPremier,
				Sheet: summarySheet,
				Fields: []parser.FieldSpec{
					label(FieldPeriod, 0, 0),
					number(FieldValue, 7, 0),
					number(FieldVolume, 8, 0),
				},
			},
			SkipLabels: []string{"total", "annual", "sum"},
		},
		&Summary{
			Meta: Meta{
				Name: "loan-disbursement-summary", Title: "Loan disbursement by year", Program: ProgramPremier,
				Sheet: summarySheet,
			},
			Years:        yearCells([]string{"2022", "2023", "2024", "2025"}, "I", "G", 18, 16),
			LabelWidth:   5,
			VolumeColumn: 6,
			ValueColumn:  8,
		},
		&Summary{
			Meta: Meta{
				Name: "sasl-loan-disbursement-summary", Title: "Loan disbursement by year", Program: ProgramSASL,
				Sheet: summarySheet,
			},
			Years:        yearCells([]string{"2019", "2020", "2021", "2022", "2023", "2024", "2025"}, "H", "G", 21, 15),
			LabelWidth:   5,
			VolumeColumn: 6,
			ValueColumn:  7,
		},
		&Cycles{
			Meta: Meta{
				Name: "sasl-loan-cycles", Title: "Loans by loan cycle", Program: ProgramSASL,
				Sheet:  allLoansSheet,
				Fields: []parser.FieldSpec{cycle},
			},
			MaxCycle: 13,
		},
		&Repayment{
			Meta: Meta{
				Name: "premier-repayment-status", Title: "Repayment status", Program: ProgramPremier,
				Sheet: repaymentSheet,
			},
			RepaymentCell: "C36",
			ArrearsCell:   "C37",
		},
	}

	reg, err := NewRegistry(reports...)
	if err != nil {
		panic(err)
	}
	return reg
}

// yearCells lays out fixed summary cells for consecutive year blocks: the
// value and volume sit on the block's first row, the average one row below.
func yearCells(years []string, valueCol, volumeCol string, firstRow, stride int) []YearCells {
	out := make([]YearCells, len(years))
	for i, y := range years {
		row := firstRow + i*stride
		out[i] = YearCells{
			Year:    y,
			Value:   fmt.Sprintf("%s%d", valueCol, row),
			Volume:  fmt.Sprintf("%s%d", volumeCol, row),
			Average: fmt.Sprintf("%s%d", valueCol, row+1),
		}
	}
	return out
}
