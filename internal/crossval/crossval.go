package crossval

import (
	"boardcheck/internal/feedback"
	"boardcheck/internal/manifest"
	"boardcheck/internal/services/formrec"
	"boardcheck/internal/textutil"
)

// Check names the comparison a Mismatch came from.
type Check string

const (
	CheckName         Check = "name"
	CheckDateOfBirth  Check = "date_of_birth"
	CheckBoardingPass Check = "boarding_pass"
)

// Mismatch describes one failed comparison. Document names the offending
// document for PII checks and is empty for the generic boarding-pass check.
type Mismatch struct {
	Check    Check
	Document string
	Message  string
}

// ValidateName checks the passenger name on both presented documents
// against the manifest. The ID card is evaluated first and short-circuits
// the boarding-pass comparison.
func ValidateName(rec manifest.Record, pass *formrec.BoardingPass, card *formrec.IDDocument) *Mismatch {
	if textutil.Clean(rec.FirstName) != textutil.Clean(card.FirstName) ||
		textutil.Clean(rec.LastName) != textutil.Clean(card.LastName) {
		return &Mismatch{Check: CheckName, Document: "ID card", Message: feedback.PIIMismatch("ID card")}
	}
	if textutil.Clean(rec.FirstName) != textutil.Clean(pass.FirstName) ||
		textutil.Clean(rec.LastName) != textutil.Clean(pass.LastName) {
		return &Mismatch{Check: CheckName, Document: "boarding pass", Message: feedback.PIIMismatch("boarding pass")}
	}
	return nil
}

// ValidateDOB checks the date of birth on the ID card against the manifest.
// Comparison is normalized text equality only; differently formatted but
// equal dates will not match, so manifests and extractors must agree on a
// date format.
func ValidateDOB(rec manifest.Record, card *formrec.IDDocument) *Mismatch {
	if textutil.Clean(rec.DateOfBirth) != textutil.Clean(card.DateOfBirth) {
		return &Mismatch{Check: CheckDateOfBirth, Document: "ID card", Message: feedback.PIIMismatch("ID card")}
	}
	return nil
}

// ValidateBoardingPass checks flight number, origin, destination, boarding
// time, and date against the manifest. Any disagreement yields the single
// generic flight-info mismatch without naming the failing field.
func ValidateBoardingPass(rec manifest.Record, pass *formrec.BoardingPass) *Mismatch {
	if textutil.Clean(rec.FlightNo) != textutil.Clean(pass.FlightNo) ||
		textutil.Clean(rec.Origin) != textutil.Clean(pass.Origin) ||
		textutil.Clean(rec.Destination) != textutil.Clean(pass.Destination) ||
		textutil.Clean(rec.BoardingTime) != textutil.Clean(pass.BoardingTime) ||
		textutil.Clean(rec.Date) != textutil.Clean(pass.Date) {
		return &Mismatch{Check: CheckBoardingPass, Message: feedback.FlightInfoMismatch}
	}
	return nil
}
