package email

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tre_crm/platform/validator"
)

const profilesYAML = `
senders:
  - key: noreply
    purpose: system
    fromAddress: noreply
  - key: leads
    purpose: lead_notification
    fromName: TRE Leads Desk
    fromAddress: leads@mail.trecrm.com
    replyTo: agents
`

func TestDecodeProfiles(t *testing.T) {
	profiles, err := DecodeProfiles(strings.NewReader(profilesYAML), "trecrm.com", "TRE CRM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	noreply := profiles[0]
	if noreply.FromAddress != "noreply@trecrm.com" || noreply.FromName != "TRE CRM" {
		t.Fatalf("unexpected noreply profile %+v", noreply)
	}
	leads := profiles[1]
	if leads.FromAddress != "leads@mail.trecrm.com" || leads.ReplyTo != "agents@trecrm.com" || leads.FromName != "TRE Leads Desk" {
		t.Fatalf("unexpected leads profile %+v", leads)
	}

	r, err := NewRegistryFromProfiles(profiles, validator.New())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if r.ForPurpose(PurposeCustomerCare).Key != SenderNoReply {
		t.Fatal("missing purpose must fall back to noreply")
	}
}

func TestDecodeProfilesRejectsUnknownFields(t *testing.T) {
	doc := "senders:\n  - key: noreply\n    purpose: system\n    from: noreply\n"
	if _, err := DecodeProfiles(strings.NewReader(doc), "trecrm.com", "TRE CRM"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "senders.yaml")
	if err := os.WriteFile(path, []byte(profilesYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	profiles, err := LoadProfiles(path, "trecrm.com", "TRE CRM")
	if err != nil || len(profiles) != 2 {
		t.Fatalf("unexpected result %v, %v", profiles, err)
	}

	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"), "trecrm.com", "TRE CRM"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
