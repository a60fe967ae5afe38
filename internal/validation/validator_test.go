package validation

import (
	"strings"
	"testing"
)

func TestCheckHeaders_AllPresent(t *testing.T) {
	findings := CheckHeaders([]string{"ip", "wallet_address", "priv_key", "notes"})
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestCheckHeaders_MissingFields(t *testing.T) {
	findings := CheckHeaders([]string{"HOST", "ADDRESS"})

	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %v", findings)
	}
	if findings[0].Field != "private_key" || findings[0].Severity != "warning" {
		t.Errorf("unexpected finding: %+v", findings[0])
	}
	if HasErrors(findings) {
		t.Error("missing private key must not be an error")
	}
}

func TestCheckHeaders_MissingIP(t *testing.T) {
	findings := CheckHeaders([]string{"name", "address", "key"})

	if !HasErrors(findings) {
		t.Fatalf("missing ip should be an error: %v", findings)
	}
	if findings[0].Field != "ip" {
		t.Errorf("first finding field = %q", findings[0].Field)
	}
	if !strings.Contains(findings[0].Message, "IP, IP_ADDRESS, SERVER_IP, HOST") {
		t.Errorf("message should list aliases: %q", findings[0].Message)
	}
}

func TestCheckHeaders_Duplicates(t *testing.T) {
	findings := CheckHeaders([]string{"ip", "address", "key", " IP "})

	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %v", findings)
	}
	if !strings.Contains(findings[0].Message, "later column wins") {
		t.Errorf("unexpected message: %q", findings[0].Message)
	}
	if !strings.HasPrefix(findings[0].String(), "[WARNING]") {
		t.Errorf("String() = %q", findings[0].String())
	}
}
