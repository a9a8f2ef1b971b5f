// Package email holds the outbound sender identities the CRM uses.
// Delivery lives with the hosted mail provider; this package only resolves
// which From and Reply-To addresses belong to which purpose.
package email

import (
	"fmt"
	"sort"
	"strings"

	"tre_crm/platform/validator"
)

// Sender keys.
const (
	SenderNoReply = "noreply"
	SenderLeads   = "leads"
	SenderAgents  = "agents"
	SenderSupport = "support"
)

// Sender purposes.
const (
	PurposeSystem       = "system"
	PurposeLeadNotify   = "lead_notification"
	PurposeAgentComms   = "agent_communication"
	PurposeCustomerCare = "customer_support"
)

// SenderProfile is one outbound identity.
type SenderProfile struct {
	Key         string `json:"key" yaml:"key" validate:"required"`
	Purpose     string `json:"purpose" yaml:"purpose" validate:"required"`
	FromName    string `json:"fromName" yaml:"fromName" validate:"required"`
	FromAddress string `json:"fromAddress" yaml:"fromAddress" validate:"required,email"`
	ReplyTo     string `json:"replyTo,omitempty" yaml:"replyTo,omitempty" validate:"omitempty,email"`
}

// Registry resolves sender profiles by key or purpose.
type Registry struct {
	byKey     map[string]SenderProfile
	byPurpose map[string]string
}

// DefaultProfiles returns the built-in senders for domain.
func DefaultProfiles(domain, fromName string) []SenderProfile {
	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	addr := func(local string) string { return local + "@" + domain }

	return []SenderProfile{
		{Key: SenderNoReply, Purpose: PurposeSystem, FromName: fromName, FromAddress: addr("noreply")},
		{Key: SenderLeads, Purpose: PurposeLeadNotify, FromName: fromName + " Leads", FromAddress: addr("leads"), ReplyTo: addr("agents")},
		{Key: SenderAgents, Purpose: PurposeAgentComms, FromName: fromName + " Agents", FromAddress: addr("agents")},
		{Key: SenderSupport, Purpose: PurposeCustomerCare, FromName: fromName + " Support", FromAddress: addr("support"), ReplyTo: addr("support")},
	}
}

// NewRegistry builds the default registry for domain.
func NewRegistry(domain, fromName string, val *validator.Validator) (*Registry, error) {
	return NewRegistryFromProfiles(DefaultProfiles(domain, fromName), val)
}

// NewRegistryFromProfiles validates profiles and indexes them. Keys and
// purposes must be unique.
func NewRegistryFromProfiles(profiles []SenderProfile, val *validator.Validator) (*Registry, error) {
	r := &Registry{
		byKey:     make(map[string]SenderProfile, len(profiles)),
		byPurpose: make(map[string]string, len(profiles)),
	}

	for _, p := range profiles {
		if err := val.Struct(p); err != nil {
			return nil, fmt.Errorf("sender %q: %w", p.Key, err)
		}
		if _, dup := r.byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate sender key %q", p.Key)
		}
		if _, dup := r.byPurpose[p.Purpose]; dup {
			return nil, fmt.Errorf("duplicate sender purpose %q", p.Purpose)
		}
		r.byKey[p.Key] = p
		r.byPurpose[p.Purpose] = p.Key
	}

	if _, ok := r.byKey[SenderNoReply]; !ok {
		return nil, fmt.Errorf("sender %q is required", SenderNoReply)
	}
	return r, nil
}

// Lookup returns the profile registered under key.
func (r *Registry) Lookup(key string) (SenderProfile, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// MustLookup is Lookup for keys known at compile time.
func (r *Registry) MustLookup(key string) SenderProfile {
	p, ok := r.byKey[key]
	if !ok {
		panic(fmt.Sprintf("email: unknown sender %q", key))
	}
	return p
}

// ForPurpose returns the sender for purpose, or the noreply sender.
func (r *Registry) ForPurpose(purpose string) SenderProfile {
	if key, ok := r.byPurpose[purpose]; ok {
		return r.byKey[key]
	}
	return r.byKey[SenderNoReply]
}

// Profiles returns every profile sorted by key.
func (r *Registry) Profiles() []SenderProfile {
	out := make([]SenderProfile, 0, len(r.byKey))
	for _, p := range r.byKey {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Address formats the profile as an RFC 5322 mailbox.
func (p SenderProfile) Address() string {
	if p.FromName == "" {
		return p.FromAddress
	}
	return fmt.Sprintf("%q <%s>", p.FromName, p.FromAddress)
}
