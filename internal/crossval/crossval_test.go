package crossval_test

import (
	"strings"
	"testing"

	"boardcheck/internal/crossval"
	"boardcheck/internal/manifest"
	"boardcheck/internal/services/formrec"
)

func janeManifest() manifest.Record {
	return manifest.Record{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  "1990-01-01",
		FlightNo:     "AB123",
		Origin:       "JFK",
		Destination:  "LAX",
		BoardingTime: "10:00",
		Date:         "2024-01-01",
	}
}

func janeCard() *formrec.IDDocument {
	return &formrec.IDDocument{FirstName: "jane", LastName: "doe", DateOfBirth: "1990-01-01"}
}

func janePass() *formrec.BoardingPass {
	return &formrec.BoardingPass{
		FirstName:    "Jane",
		LastName:     "Doe",
		FlightNo:     "AB123",
		Origin:       "JFK",
		Destination:  "LAX",
		BoardingTime: "10:00",
		Date:         "2024-01-01",
	}
}

func TestValidateNameToleratesCaseAndWhitespace(t *testing.T) {
	rec := janeManifest()
	card := janeCard()
	card.FirstName = "  JANE "
	pass := janePass()
	pass.LastName = "DOE"
	if m := crossval.ValidateName(rec, pass, card); m != nil {
		t.Fatalf("expected pass, got mismatch %+v", m)
	}
}

func TestValidateNameIDCardShortCircuits(t *testing.T) {
	rec := janeManifest()
	card := janeCard()
	card.LastName = "Smith"
	pass := janePass()
	pass.FirstName = "Janet" // also wrong, but the ID card is reported

	m := crossval.ValidateName(rec, pass, card)
	if m == nil {
		t.Fatal("expected mismatch")
	}
	if m.Document != "ID card" {
		t.Fatalf("expected ID card mismatch, got %q", m.Document)
	}
	if !strings.Contains(m.Message, "ID card") {
		t.Fatalf("message should name the document: %s", m.Message)
	}
}

func TestValidateNameBoardingPassReported(t *testing.T) {
	rec := janeManifest()
	pass := janePass()
	pass.FirstName = "Janet"
	m := crossval.ValidateName(rec, pass, janeCard())
	if m == nil || m.Document != "boarding pass" {
		t.Fatalf("expected boarding pass mismatch, got %+v", m)
	}
}

func TestValidateDOB(t *testing.T) {
	rec := janeManifest()
	if m := crossval.ValidateDOB(rec, janeCard()); m != nil {
		t.Fatalf("expected pass, got %+v", m)
	}
	card := janeCard()
	card.DateOfBirth = "1990-01-02"
	if m := crossval.ValidateDOB(rec, card); m == nil || m.Document != "ID card" {
		t.Fatalf("expected ID card mismatch, got %+v", m)
	}
}

func TestValidateDOBFormatVarianceIsAMismatch(t *testing.T) {
	card := janeCard()
	card.DateOfBirth = "01/01/1990" // same date, different format
	if m := crossval.ValidateDOB(janeManifest(), card); m == nil {
		t.Fatal("differently formatted dates must not compare equal")
	}
}

func TestValidateBoardingPassAllFieldsAgree(t *testing.T) {
	if m := crossval.ValidateBoardingPass(janeManifest(), janePass()); m != nil {
		t.Fatalf("expected pass, got %+v", m)
	}
}

func TestValidateBoardingPassGenericMismatch(t *testing.T) {
	pass := janePass()
	pass.FlightNo = "AB999"
	m := crossval.ValidateBoardingPass(janeManifest(), pass)
	if m == nil {
		t.Fatal("expected mismatch")
	}
	if m.Check != crossval.CheckBoardingPass {
		t.Fatalf("unexpected check %q", m.Check)
	}
	if strings.Contains(m.Message, "AB999") || strings.Contains(m.Message, "flight number") {
		t.Fatalf("mismatch must not reveal the failing field: %s", m.Message)
	}
}

func TestValidateBoardingPassNormalizesEveryField(t *testing.T) {
	pass := janePass()
	pass.Origin = " jfk "
	pass.Destination = "lax"
	pass.BoardingTime = "10:00 "
	if m := crossval.ValidateBoardingPass(janeManifest(), pass); m != nil {
		t.Fatalf("expected normalized comparison to pass, got %+v", m)
	}
}

func TestChecksAreIdempotent(t *testing.T) {
	rec := janeManifest()
	pass := janePass()
	pass.FlightNo = "AB999"
	card := janeCard()

	for i := 0; i < 3; i++ {
		if m := crossval.ValidateName(rec, pass, card); m != nil {
			t.Fatalf("iteration %d: name check flapped: %+v", i, m)
		}
		if m := crossval.ValidateBoardingPass(rec, pass); m == nil {
			t.Fatalf("iteration %d: boarding pass check flapped", i)
		}
	}
}
