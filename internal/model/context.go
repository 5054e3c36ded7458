// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// BUSINESS CONTEXT
// =============================================================================

// ConversationContext is the optional structured tag set attached to a
// conversation. The gateway uses it to filter and steer assistant
// behavior. Every field is either blank or one value from a small closed
// enumeration, except Region which is free text.
type ConversationContext struct {
	UserRole      string `json:"user_role,omitempty"`
	BusinessStage string `json:"business_stage,omitempty"`
	Goal          string `json:"goal,omitempty"`
	Urgency       string `json:"urgency,omitempty"`
	Region        string `json:"region,omitempty"`
	BusinessNiche string `json:"business_niche,omitempty"`
}

// Closed enumerations for the context fields. The zero value ("") always
// means "unset".
var (
	UserRoles      = []string{"owner", "marketer", "accountant", "beginner"}
	BusinessStages = []string{"startup", "stable", "scaling"}
	Goals          = []string{"increase_revenue", "reduce_costs", "hire_staff", "launch_ads", "legal_help"}
	Urgencies      = []string{"urgent", "normal", "planning"}
	BusinessNiches = []string{"retail", "services", "food_service", "manufacturing", "online_services"}
)

// IsEmpty reports whether no field is set. An empty context is
// semantically "no context" and must never be persisted as an object.
func (c *ConversationContext) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.UserRole == "" &&
		c.BusinessStage == "" &&
		c.Goal == "" &&
		c.Urgency == "" &&
		c.Region == "" &&
		c.BusinessNiche == ""
}

// Normalize maps an all-blank context to nil and returns a copy otherwise,
// so callers can hold the result without aliasing the input.
func (c *ConversationContext) Normalize() *ConversationContext {
	if c.IsEmpty() {
		return nil
	}
	norm := *c
	return &norm
}

// FieldCount returns the number of set fields, used by the UI to mark a
// conversation as context-tagged.
func (c *ConversationContext) FieldCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, v := range []string{c.UserRole, c.BusinessStage, c.Goal, c.Urgency, c.Region, c.BusinessNiche} {
		if v != "" {
			n++
		}
	}
	return n
}
