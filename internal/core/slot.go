package core

import (
	"fmt"
	"strings"
)

// Slot names one of the editable fields of a request.
type Slot int

const (
	SlotURI Slot = iota
	SlotHeaders
	SlotBody
)

// PayloadSlots lists the slots that can appear as payload tabs, in default order.
var PayloadSlots = []Slot{SlotHeaders, SlotBody}

// String returns the lower-case identifier used in flags and environment values.
func (s Slot) String() string {
	switch s {
	case SlotURI:
		return "uri"
	case SlotHeaders:
		return "headers"
	case SlotBody:
		return "body"
	default:
		return "unknown"
	}
}

// Title returns the display title of the slot.
func (s Slot) Title() string {
	switch s {
	case SlotURI:
		return "URI"
	case SlotHeaders:
		return "Headers"
	case SlotBody:
		return "Body"
	default:
		return "Unknown"
	}
}

// IsPayload reports whether the slot can be a payload tab.
func (s Slot) IsPayload() bool {
	return s == SlotHeaders || s == SlotBody
}

// ParsePayloadSlots parses an ordered list of payload tab names.
// The result is non-empty and free of duplicates.
func ParsePayloadSlots(names []string) ([]Slot, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one payload tab is required")
	}

	seen := make(map[Slot]bool, len(names))
	slots := make([]Slot, 0, len(names))
	for _, name := range names {
		slot, err := parsePayloadSlot(name)
		if err != nil {
			return nil, err
		}
		if seen[slot] {
			return nil, fmt.Errorf("duplicate payload tab: %s", slot)
		}
		seen[slot] = true
		slots = append(slots, slot)
	}
	return slots, nil
}

func parsePayloadSlot(name string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "headers":
		return SlotHeaders, nil
	case "body":
		return SlotBody, nil
	default:
		return 0, fmt.Errorf("unknown payload tab: %q", name)
	}
}
