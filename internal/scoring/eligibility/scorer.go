// internal/scoring/eligibility/scorer.go
package eligibility

import (
	"strconv"
	"strings"
	"time"
)

// ConductStatus is the applicant's good-conduct certificate state as captured
// on the application form.
type ConductStatus string

const (
	ConductValidCertificate   ConductStatus = "Valid Certificate"
	ConductApplicationReceipt ConductStatus = "Application Receipt"
	ConductExpired            ConductStatus = "Expired"
	ConductNone               ConductStatus = "None"
)

// Routing statuses persisted on the candidate record.
const (
	StatusPending           = "PENDING"
	StatusPendingApplyingGC = "Pending, applying GC"
	StatusLostAge           = "Lost, Age"
	StatusLostExperience    = "Lost, Experience"
	StatusLostNoReferences  = "Lost, No References"
	StatusLostNoGoodConduct = "Lost, No Good Conduct"
)

// Disqualification reasons shown to the applicant.
const (
	ReasonAge         = "age requirement not met"
	ReasonExperience  = "minimum 4 years Kenya experience required"
	ReasonReferees    = "at least 1 referee required"
	ReasonGoodConduct = "good conduct certificate required"
)

const (
	minAge             = 24
	maxAge             = 45
	minKenyaYears      = 4
	conductWaiverYears = 7
)

// WorkExperience is one prior job entry. Dates are "YYYY-MM" strings as
// submitted by the form; StillWorking makes EndDate irrelevant.
type WorkExperience struct {
	Employer     string `json:"employer"`
	Country      string `json:"country"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	StillWorking bool   `json:"stillWorking"`
}

// Input aggregates everything needed to score one applicant.
type Input struct {
	WorkExperiences   []WorkExperience `json:"workExperiences"`
	GoodConductStatus ConductStatus    `json:"goodConductStatus"`
	Referee1Name      string           `json:"referee1Name"`
	Referee1Phone     string           `json:"referee1Phone"`
	Referee2Name      string           `json:"referee2Name"`
	Referee2Phone     string           `json:"referee2Phone"`
	DateOfBirth       time.Time        `json:"dateOfBirth"`
	Role              string           `json:"role"`
}

// Result is the scoring verdict. Qualified and Status derive from the same
// decision table, so the applicant-facing gate and the persisted routing label
// can never disagree.
type Result struct {
	Qualified bool     `json:"qualified"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
	Status    string   `json:"status"`
}

// derived holds the intermediate quantities shared by the score, the
// disqualification rules and the status routing.
type derived struct {
	kenyaYears     int
	totalYears     int
	age            int
	hasReferees    bool
	refereeCount   int
	hasGoodConduct bool
}

// Evaluate scores one applicant. It is a total function: malformed dates
// contribute zero years and missing fields simply fail their gates. The
// reference time is injected so tests can freeze the clock.
func Evaluate(in Input, now time.Time) Result {
	d := derive(in, now)

	res := Result{
		Score:   score(in, d),
		Reasons: disqualifications(d),
		Status:  route(d),
	}
	res.Qualified = len(res.Reasons) == 0
	return res
}

func derive(in Input, now time.Time) derived {
	d := derived{
		age:            age(in.DateOfBirth, now),
		hasGoodConduct: in.GoodConductStatus == ConductValidCertificate || in.GoodConductStatus == ConductApplicationReceipt,
	}

	for _, we := range in.WorkExperiences {
		years := experienceYears(we, now)
		d.totalYears += years
		if strings.EqualFold(strings.TrimSpace(we.Country), "Kenya") {
			d.kenyaYears += years
		}
	}

	d.hasReferees = in.Referee1Name != "" && in.Referee1Phone != ""
	if in.Referee1Name != "" {
		d.refereeCount++
	}
	if in.Referee2Name != "" {
		d.refereeCount++
	}

	return d
}

// experienceYears counts whole calendar years between start and end year.
// Partial years are not fractional; this mirrors the agency's coarse policy.
// Entries missing an employer or start date, and unparseable years, count as 0.
func experienceYears(we WorkExperience, now time.Time) int {
	if we.Employer == "" || we.StartDate == "" {
		return 0
	}

	startYear := parseYear(we.StartDate)
	if startYear == 0 {
		return 0
	}

	endYear := 0
	if we.StillWorking {
		endYear = now.Year()
	} else {
		endYear = parseYear(we.EndDate)
	}
	if endYear == 0 || endYear < startYear {
		return 0
	}

	return endYear - startYear
}

// parseYear extracts the year from a "YYYY-MM" (or "YYYY-MM-DD") string.
// Returns 0 when the value is not parseable.
func parseYear(date string) int {
	date = strings.TrimSpace(date)
	if idx := strings.IndexByte(date, '-'); idx > 0 {
		date = date[:idx]
	}
	year, err := strconv.Atoi(date)
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// age is calendar-aware whole-year subtraction: one year is subtracted when
// the current month/day precedes the birthday.
func age(dob time.Time, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// score is purely additive; the maximum under the current weight table is 85.
func score(in Input, d derived) int {
	total := 0

	switch {
	case d.kenyaYears >= 10:
		total += 40
	case d.kenyaYears >= 6:
		total += 35
	case d.kenyaYears >= 5:
		total += 30
	case d.kenyaYears >= 4:
		total += 25
	}

	switch in.GoodConductStatus {
	case ConductValidCertificate:
		total += 20
	case ConductApplicationReceipt:
		total += 10
	}

	switch {
	case d.refereeCount >= 2:
		total += 25
	case d.refereeCount == 1:
		total += 20
	}

	return total
}

func disqualifications(d derived) []string {
	var reasons []string

	if d.age < minAge || d.age > maxAge {
		reasons = append(reasons, ReasonAge)
	}
	if d.kenyaYears < minKenyaYears {
		reasons = append(reasons, ReasonExperience)
	}
	if !d.hasReferees {
		reasons = append(reasons, ReasonReferees)
	}
	// 7+ years of local experience waives the conduct certificate.
	if !d.hasGoodConduct && d.kenyaYears < conductWaiverYears {
		reasons = append(reasons, ReasonGoodConduct)
	}

	return reasons
}

// route selects the persisted routing label. First matching branch wins, so an
// applicant failing several gates is filed under the earliest one.
func route(d derived) string {
	switch {
	case d.age < minAge || d.age > maxAge:
		return StatusLostAge
	case d.kenyaYears < minKenyaYears:
		return StatusLostExperience
	case !d.hasReferees:
		return StatusLostNoReferences
	case d.kenyaYears >= conductWaiverYears && !d.hasGoodConduct:
		// Waiver path: the applicant proceeds while obtaining the certificate.
		return StatusPendingApplyingGC
	case !d.hasGoodConduct:
		return StatusLostNoGoodConduct
	default:
		return StatusPending
	}
}
