package emails

import (
	"strings"
	"testing"
)

func TestNewVerificationEmail(t *testing.T) {
	msg, err := NewVerificationEmail("noreply@example.com", "ada@example.com", "Ada", "482913")
	if err != nil {
		t.Fatalf("NewVerificationEmail() error = %v", err)
	}

	if msg.To != "ada@example.com" || msg.From != "noreply@example.com" {
		t.Errorf("NewVerificationEmail() addresses = %q -> %q", msg.From, msg.To)
	}
	if msg.Subject != VerificationSubject {
		t.Errorf("NewVerificationEmail() subject = %q, want %q", msg.Subject, VerificationSubject)
	}

	for _, want := range []string{"Hello Ada,", "482913", "expire in 5 minutes"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML body missing %q", want)
		}
		if !strings.Contains(msg.Text, want) {
			t.Errorf("text body missing %q", want)
		}
	}
}

func TestNewVerificationEmail_Verbatim(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		code     string
	}{
		{name: "apostrophe in name", userName: "Conan O'Brien", code: "482913"},
		{name: "ampersand in code", userName: "Ada", code: "12&34"},
		{name: "quotes in name", userName: `Ada "The Countess" Lovelace`, code: "482913"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewVerificationEmail("", "ada@example.com", tt.userName, tt.code)
			if err != nil {
				t.Fatalf("NewVerificationEmail() error = %v", err)
			}

			if !strings.Contains(msg.HTML, "Hello "+tt.userName+",") {
				t.Errorf("HTML body missing literal user name %q:\n%s", tt.userName, msg.HTML)
			}
			if !strings.Contains(msg.HTML, tt.code) {
				t.Errorf("HTML body missing literal code %q:\n%s", tt.code, msg.HTML)
			}
			if !strings.Contains(msg.Text, "Hello "+tt.userName+",") {
				t.Errorf("text body missing literal user name %q", tt.userName)
			}
		})
	}
}
