package report

import (
	"log/slog"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// Field names shared by the report definitions.
const (
	FieldSchools    = "schools"
	FieldGender     = "gender"
	FieldTraining   = "training"
	FieldBoys       = "boys"
	FieldGirls      = "girls"
	FieldStudents   = "students"
	FieldFees       = "fees"
	FieldLoan       = "loan"
	FieldBranch     = "branch"
	FieldSchool     = "school"
	FieldAmount     = "amount"
	FieldEnrollment = "enrollment"
	FieldPurpose    = "purpose"
	FieldPeriod     = "period"
	FieldValue      = "value"
	FieldVolume     = "volume"
	FieldCycle      = "cycle"
)

// Baseline reports school counts, proprietor gender, training uptake,
// student reach and the annual fee distribution.
type Baseline struct {
	Meta
	Entities aggregate.EntityPolicy
	Currency CurrencyPolicy
}

func (r *Baseline) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	acc, err := r.pass(wb, aggregate.Plan{Entities: r.Entities}, log)
	if err != nil {
		return nil, err
	}

	out := &models.Baseline{
		TotalSchools: stats.Round(acc.Entities),
	}
	if acc.Bound(FieldGender) {
		out.SchoolProprietorGender = genderSplit(acc, FieldGender)
	}
	if acc.Bound(FieldTraining) {
		yes, no := acc.Count(FieldTraining, parser.Yes), acc.Count(FieldTraining, parser.No)
		pYes, pNo := stats.Split(float64(yes), float64(no))
		out.DignitasTraining = &models.YesNoSplit{Yes: pYes, No: pNo, YesCount: yes, NoCount: no}
	}
	if acc.Bound(FieldBoys) || acc.Bound(FieldGirls) || acc.Bound(FieldStudents) {
		out.StudentReach = studentReach(acc)
	}
	if acc.Bound(FieldFees) {
		out.AnnualFees = distribution(r.Currency.Convert(acc.Values(FieldFees)), r.Currency.Unit())
	}
	return out, nil
}

func genderSplit(acc *aggregate.Accumulator, field string) *models.GenderSplit {
	female, male := acc.Count(field, parser.Female), acc.Count(field, parser.Male)
	pFemale, pMale := stats.Split(float64(female), float64(male))
	return &models.GenderSplit{
		Female:      pFemale,
		Male:        pMale,
		FemaleCount: female,
		MaleCount:   male,
	}
}

// studentReach expresses boys and girls as shares of the reported total.
// When the workbook has no usable total, boys plus girls is used instead.
func studentReach(acc *aggregate.Accumulator) *models.StudentReach {
	boys, girls := acc.Sum(FieldBoys), acc.Sum(FieldGirls)
	total := acc.Sum(FieldStudents)
	if total <= 0 {
		total = boys + girls
	}
	return &models.StudentReach{
		Total:      stats.Round(total),
		Boys:       stats.Percent(boys, total),
		Girls:      stats.Percent(girls, total),
		BoysCount:  stats.Round(boys),
		GirlsCount: stats.Round(girls),
	}
}

func distribution(values []float64, currency string) *models.FeeDistribution {
	d := stats.Describe(values)
	return &models.FeeDistribution{
		Currency:  currency,
		Count:     d.Count,
		Average:   d.Average,
		Lowest:    d.Lowest,
		Maximum:   d.Maximum,
		Quartile1: d.Quartiles.Q1,
		Quartile2: d.Quartiles.Q2,
		Quartile3: d.Quartiles.Q3,
		Quartile4: d.Quartiles.Q4,
	}
}
