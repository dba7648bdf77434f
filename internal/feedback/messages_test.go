package feedback_test

import (
	"strings"
	"testing"

	"boardcheck/internal/feedback"
)

func TestAllClearInterpolatesDetails(t *testing.T) {
	msg := feedback.AllClear(feedback.FlightDetails{
		FirstName:    "Jane",
		LastName:     "Doe",
		FlightNo:     "AB123",
		BoardingTime: "10:00",
		Origin:       "JFK",
		Destination:  "LAX",
	})
	for _, fragment := range []string{"Jane Doe", "AB123", "10:00", "JFK", "LAX", "identity is verified"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("all-clear message missing %q:\n%s", fragment, msg)
		}
	}
}

func TestIdentityUnverifiedMentionsRepresentative(t *testing.T) {
	msg := feedback.IdentityUnverified(feedback.FlightDetails{FirstName: "Jane", LastName: "Doe"})
	if !strings.Contains(msg, "could not be verified") {
		t.Fatalf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "customer service representative") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestPIIMismatchNamesDocument(t *testing.T) {
	msg := feedback.PIIMismatch("ID card")
	if !strings.Contains(msg, "ID card") {
		t.Fatalf("message missing document name: %s", msg)
	}
}

func TestFlightInfoMismatchIsGeneric(t *testing.T) {
	if strings.Contains(feedback.FlightInfoMismatch, "%") {
		t.Fatal("flight-info mismatch must not be a template")
	}
}
