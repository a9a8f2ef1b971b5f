package email

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type profilesFile struct {
	Senders []SenderProfile `yaml:"senders"`
}

// LoadProfiles reads sender profiles from a YAML file. See DecodeProfiles.
func LoadProfiles(path, domain, fromName string) ([]SenderProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sender profiles: %w", err)
	}
	return DecodeProfiles(bytes.NewReader(data), domain, fromName)
}

// DecodeProfiles parses a document of the form
//
//	senders:
//	  - key: leads
//	    purpose: lead_notification
//	    fromAddress: leads
//
// Addresses without an @ are local parts on domain, and an empty fromName
// inherits fromName.
func DecodeProfiles(r io.Reader, domain, fromName string) ([]SenderProfile, error) {
	var doc profilesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sender profiles: %w", err)
	}

	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	for i := range doc.Senders {
		p := &doc.Senders[i]
		p.FromAddress = qualify(p.FromAddress, domain)
		p.ReplyTo = qualify(p.ReplyTo, domain)
		if p.FromName == "" {
			p.FromName = fromName
		}
	}
	return doc.Senders, nil
}

func qualify(addr, domain string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" || strings.Contains(addr, "@") {
		return addr
	}
	return addr + "@" + domain
}
