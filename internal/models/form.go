package models

import "fmt"

// Configuration keys on a HubSpot form.
const (
	FlagCreateNewContact     = "createNewContactForNewEmail"
	FlagAllowResetKnownValue = "allowLinkToResetKnownValues"
)

// Form represents a marketing form as returned by the forms API.
// Only id, name and configuration are interpreted; everything else is kept
// as decoded.
type Form map[string]interface{}

// ID returns the form's identifier.
func (f Form) ID() string {
	switch v := f["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

// Name returns the form's display name.
func (f Form) Name() string {
	return stringField(f, "name")
}

// Configuration returns the nested configuration object, or nil.
func (f Form) Configuration() map[string]interface{} {
	cfg, _ := f["configuration"].(map[string]interface{})
	return cfg
}

// ConfigBool reports the boolean configuration value stored under key and
// whether it was present as a boolean at all.
func (f Form) ConfigBool(key string) (value, present bool) {
	v, ok := f.Configuration()[key].(bool)
	return v, ok
}

// FlagEnabled reports whether createNewContactForNewEmail is set to true.
// An absent or non-boolean value counts as disabled.
func (f Form) FlagEnabled() bool {
	v, _ := f.ConfigBool(FlagCreateNewContact)
	return v
}

// Label renders "name (id)" for progress output.
func (f Form) Label() string {
	name := f.Name()
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s (%s)", name, f.ID())
}

// PatchConfiguration is the configuration subset sent on update.
type PatchConfiguration struct {
	CreateNewContactForNewEmail bool `json:"createNewContactForNewEmail"`
	AllowLinkToResetKnownValues bool `json:"allowLinkToResetKnownValues"`
}

// PatchPayload is the partial-update body for a form. The API merges it into
// the existing configuration.
type PatchPayload struct {
	Configuration PatchConfiguration `json:"configuration"`
}

// EnablePayload returns the fixed payload that turns the flag on.
func EnablePayload() PatchPayload {
	return PatchPayload{Configuration: PatchConfiguration{
		CreateNewContactForNewEmail: true,
		AllowLinkToResetKnownValues: true,
	}}
}

// stringField safely extracts a string field, returning "" if nil.
func stringField(obj map[string]interface{}, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}
