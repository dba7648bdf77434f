// Package feedback renders the templated passenger- and staff-facing
// messages keyed by verification outcome.
package feedback

import "fmt"

// FlightDetails carries the manifest fields interpolated into messages.
type FlightDetails struct {
	FirstName    string
	LastName     string
	FlightNo     string
	BoardingTime string
	Origin       string
	Destination  string
}

const allClearTemplate = `Dear %s %s,
You are welcome to flight %s leaving at %s from %s to %s.
Your seat number is A5, and it is confirmed.
We did not find a prohibited item in your carry-on baggage, thanks for following the procedure.
Your identity is verified so please board the plane.`

const identityUnverifiedTemplate = `Dear %s %s,
You are welcome to flight %s leaving at %s from %s to %s.
Your seat number is A5, and it is confirmed.
We did not find a prohibited item in your carry-on baggage, thanks for following the procedure.
Your identity could not be verified. Please see a customer service representative.`

// FlightInfoMismatch is shown when any boarding-pass field disagrees with
// the manifest. It deliberately does not say which field failed.
const FlightInfoMismatch = `Dear Sir/Madam,
Some of the information in your boarding pass does not match the flight manifest data, so you cannot board the plane.
Please see a customer service representative.`

// AllClear is the boarding message for a passenger who passed every check.
func AllClear(d FlightDetails) string {
	return fmt.Sprintf(allClearTemplate, d.FirstName, d.LastName, d.FlightNo, d.BoardingTime, d.Origin, d.Destination)
}

// IdentityUnverified is the message for a passenger whose biometric
// identity check failed or could not be completed.
func IdentityUnverified(d FlightDetails) string {
	return fmt.Sprintf(identityUnverifiedTemplate, d.FirstName, d.LastName, d.FlightNo, d.BoardingTime, d.Origin, d.Destination)
}

// PIIMismatch is the message for personal information on the named document
// disagreeing with the manifest.
func PIIMismatch(document string) string {
	return fmt.Sprintf(`Dear Sir/Madam,
Some of the information on your %s does not match the flight manifest data, so you cannot board the plane.
Please see a customer service representative.`, document)
}
