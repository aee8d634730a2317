/*
autofill.go - Calendar-hours auto-fill reconciler

PURPOSE:
  Merges externally supplied calendar-derived worked hours into the
  contract inputs the user has not manually overridden, and reverses that
  merge cleanly when auto-fill is disabled.

STATE MACHINE (per company, independent across companies):
  Disabled (initial):
    Contract-entry hours reflect only user input.
  Enabled:
    Entered when the user toggles a group on AND the group's calendar
    hours for the active period are strictly positive. A toggle without
    positive hours is a no-op, not an error.
    While enabled, every entry NOT in the manual-override set holds
    calendarHours / len(entries), rounded to 2 decimals.
  Leaving Enabled (toggle off, or hours drop to zero on a later resync):
    Exactly the keys auto-fill wrote are reset to "", nothing else.

OVERRIDES:
  Typing into an hours field puts its key in the override set (clearing the
  field removes it again). Overridden keys are never rewritten by auto-fill
  and survive the disable-time reset.

All state lives in an explicit AutoFillState threaded by the caller; there
is no package-level tracking.
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AutoFillState tracks, per worker session, which contract keys the user
// has manually overridden and which keys auto-fill populated per company.
type AutoFillState struct {
	// Overrides holds keys the user typed into; auto-fill never writes them.
	Overrides map[ContractKey]bool

	// Filled holds, per company, exactly the keys auto-fill wrote. Disable
	// resets these keys and no others.
	Filled map[CompanyKey]map[ContractKey]bool

	// Enabled holds which company groups currently have auto-fill on.
	Enabled map[CompanyKey]bool
}

// NewAutoFillState returns an empty state: all groups disabled, no
// overrides recorded.
func NewAutoFillState() *AutoFillState {
	return &AutoFillState{
		Overrides: make(map[ContractKey]bool),
		Filled:    make(map[CompanyKey]map[ContractKey]bool),
		Enabled:   make(map[CompanyKey]bool),
	}
}

// IsEnabled reports whether auto-fill is on for a company group.
func (s *AutoFillState) IsEnabled(key CompanyKey) bool { return s.Enabled[key] }

// =============================================================================
// TOGGLING
// =============================================================================

// Toggle enables or disables auto-fill for one group and returns the
// updated inputs. Enabling a group whose calendar hours are not strictly
// positive leaves (or puts) the group in Disabled; the request is dropped
// silently, as the resulting state is the only signal the caller gets.
func (s *AutoFillState) Toggle(inputs ContractInputs, group CompanyGroup, enabled bool, calendarHours decimal.Decimal) ContractInputs {
	out := inputs.Clone()
	if enabled && calendarHours.IsPositive() {
		s.Enabled[group.CompanyKey] = true
		s.fill(out, group, calendarHours)
	} else {
		s.clear(out, group.CompanyKey)
	}
	return out
}

// ToggleAll applies Toggle to every group atomically. Groups without
// positive calendar hours end up Disabled regardless of the requested
// direction.
func (s *AutoFillState) ToggleAll(inputs ContractInputs, groups []CompanyGroup, enabled bool, calendar CalendarHours) ContractInputs {
	out := inputs.Clone()
	for _, group := range groups {
		hours := calendar.For(group.CompanyKey)
		if enabled && hours.IsPositive() {
			s.Enabled[group.CompanyKey] = true
			s.fill(out, group, hours)
		} else {
			s.clear(out, group.CompanyKey)
		}
	}
	return out
}

// Resync re-applies auto-fill for every enabled group after new calendar
// data arrives. Groups whose hours dropped to zero or vanished are
// disabled and their auto-filled keys reset.
func (s *AutoFillState) Resync(inputs ContractInputs, groups []CompanyGroup, calendar CalendarHours) ContractInputs {
	out := inputs.Clone()
	for _, group := range groups {
		if !s.Enabled[group.CompanyKey] {
			continue
		}
		if hours := calendar.For(group.CompanyKey); hours.IsPositive() {
			s.fill(out, group, hours)
		} else {
			s.clear(out, group.CompanyKey)
		}
	}
	return out
}

// =============================================================================
// MANUAL EDITS
// =============================================================================

// RecordManualEdit stores a user-typed hours value. A non-blank value adds
// the key to the override set; clearing the field removes it. Either way
// the key stops counting as auto-filled, so a later disable leaves it
// alone.
func (s *AutoFillState) RecordManualEdit(inputs ContractInputs, key ContractKey, value string) ContractInputs {
	out := inputs.Clone()
	in := out[key]
	in.Hours = value
	out[key] = in

	if strings.TrimSpace(value) != "" {
		s.Overrides[key] = true
	} else {
		delete(s.Overrides, key)
	}
	for _, filled := range s.Filled {
		delete(filled, key)
	}
	return out
}

// =============================================================================
// FILL / CLEAR
// =============================================================================

func (s *AutoFillState) fill(inputs ContractInputs, group CompanyGroup, calendarHours decimal.Decimal) {
	if len(group.Entries) == 0 {
		return
	}
	perEntry := calendarHours.
		Div(decimal.NewFromInt(int64(len(group.Entries)))).
		Round(2)

	value := ""
	if perEntry.IsPositive() {
		value = formatHours(perEntry)
	}

	filled := s.Filled[group.CompanyKey]
	if filled == nil {
		filled = make(map[ContractKey]bool)
		s.Filled[group.CompanyKey] = filled
	}
	for _, entry := range group.Entries {
		if s.Overrides[entry.ContractKey] {
			continue
		}
		in := inputs[entry.ContractKey]
		in.Hours = value
		inputs[entry.ContractKey] = in
		filled[entry.ContractKey] = true
	}
}

func (s *AutoFillState) clear(inputs ContractInputs, company CompanyKey) {
	for key := range s.Filled[company] {
		in := inputs[key]
		in.Hours = ""
		inputs[key] = in
	}
	delete(s.Filled, company)
	delete(s.Enabled, company)
}
